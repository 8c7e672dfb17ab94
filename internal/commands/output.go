package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/gaborage/go-holded/transport"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case formatJSON, formatYAML, "yml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: json, yaml)", format)
	}
}

// printResponse writes a response body in the requested format. Bodies that
// are not JSON are written untouched.
func printResponse(w io.Writer, format string, resp *transport.Response) error {
	body := resp.Body()
	if resp.Kind == transport.BodyEmpty || len(bytes.TrimSpace(body)) == 0 {
		okLabel.Fprintf(w, "OK (%d)\n", resp.StatusCode)
		return nil
	}
	if resp.Kind == transport.BodyRaw || !json.Valid(body) {
		_, err := w.Write(body)
		return err
	}

	if format == formatJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		out.WriteByte('\n')
		_, err := out.WriteTo(w)
		return err
	}

	yamlBytes, err := yaml.JSONToYAML(body)
	if err != nil {
		return fmt.Errorf("failed to convert response to YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

func printValue(w io.Writer, format string, v any) error {
	var (
		out []byte
		err error
	)
	if format == formatJSON {
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(out)
	return err
}
