package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
	"github.com/hashicorp/hcl/hcl/ast"
	"github.com/mitchellh/mapstructure"
)

// validKeys lists the permitted top-level keys in a simulator HCL config
// file; an unrecognized key is rejected rather than silently ignored.
var validKeys = []string{
	"duration",
	"job_lifetime",
	"job_interarrival",
	"job_invocation_rate",
	"node_capacity",
	"defragmentation_interval",
	"state_mul",
	"arg_mul",
	"seed_init",
	"seed_end",
	"concurrency",
	"policy",
	"data_dir",
	"output",
	"append",
	"additional_fields",
	"additional_header",
	"log_level",
	"pagerduty_service_key",
	"telemetry",
}

// ParseFile parses the given path as an HCL config file.
func ParseFile(path string) (*Config, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config: error parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a config from the given io.Reader.
func Parse(r io.Reader) (*Config, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}

	root, err := hcl.Parse(buf.String())
	if err != nil {
		return nil, fmt.Errorf("error parsing: %s", err)
	}

	list, ok := root.Node.(*ast.ObjectList)
	if !ok {
		return nil, fmt.Errorf("error parsing: root should be an object")
	}

	if err := checkHCLKeys(list, validKeys); err != nil {
		return nil, multierror.Prefix(err, "config:")
	}

	var m map[string]interface{}
	if err := hcl.DecodeObject(&m, list); err != nil {
		return nil, err
	}

	var cfg Config
	if err := mapstructure.WeakDecode(m, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// checkHCLKeys rejects any top-level key not present in valid, before
// decoding the remainder of the document.
func checkHCLKeys(list *ast.ObjectList, valid []string) error {
	var result error

	allowed := make(map[string]struct{}, len(valid))
	for _, k := range valid {
		allowed[k] = struct{}{}
	}

	for _, item := range list.Items {
		if len(item.Keys) == 0 {
			continue
		}
		key := item.Keys[0].Token.Value().(string)
		if _, ok := allowed[key]; !ok {
			result = multierror.Append(result, fmt.Errorf(
				"invalid key: %s", key))
		}
	}

	return result
}
