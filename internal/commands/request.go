package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/gaborage/go-holded/transport"
)

// RequestOptions holds options for the get, post, put and delete commands
type RequestOptions struct {
	Query []string
	Data  string
}

func newRequestCommand(g *GlobalOptions, method string) *cobra.Command {
	opts := &RequestOptions{}
	httpMethod := strings.ToUpper(method)
	withBody := httpMethod == "POST" || httpMethod == "PUT"

	cmd := &cobra.Command{
		Use:   method + " PATH",
		Short: fmt.Sprintf("Send a %s request to the Holded API", httpMethod),
		Long: fmt.Sprintf(`Send a %s request. PATH is relative to the API root, for example
invoicing/v1/contacts. Failed calls are retried according to the retry settings.`, httpMethod),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(httpMethod, args[0], opts, cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, err := g.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), g.Output, resp)
		},
	}

	switch httpMethod {
	case "GET":
		cmd.Example = `  # List contacts
  holded get invoicing/v1/contacts

  # Filter documents by date, as YAML
  holded get invoicing/v1/documents/invoice -q starttmp=1704067200 -q endtmp=1706745599 -o yaml`
	case "POST":
		cmd.Example = `  # Create a contact
  holded post invoicing/v1/contacts -d '{"name":"Acme"}'

  # Create a document from a file
  holded post invoicing/v1/documents/invoice -d @invoice.json`
	}

	cmd.Flags().StringArrayVarP(&opts.Query, "query", "q", nil, "Query parameter as key=value, repeatable")
	if withBody {
		cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "JSON body, @file to read a file or - for stdin")
	}

	return cmd
}

func buildRequest(method, path string, opts *RequestOptions, stdin io.Reader) (*transport.Request, error) {
	query, err := parseQuery(opts.Query)
	if err != nil {
		return nil, err
	}
	req := transport.NewRequest(method, path).WithQuery(query)

	if opts.Data != "" {
		body, err := readBody(opts.Data, stdin)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("request body is not valid JSON")
		}
		req.Body = body
	}
	return req, nil
}

// parseQuery turns key=value pairs into a query. Repeated keys are sent as
// repeated parameters.
func parseQuery(pairs []string) (transport.Query, error) {
	values := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid query parameter %q: expected key=value", pair)
		}
		values[key] = append(values[key], value)
	}

	query := make(transport.Query, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			query[key] = vs[0]
			continue
		}
		query[key] = vs
	}
	return query, nil
}

func readBody(data string, stdin io.Reader) ([]byte, error) {
	switch {
	case data == "-":
		body, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return body, nil
	case strings.HasPrefix(data, "@"):
		body, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		return body, nil
	default:
		return []byte(data), nil
	}
}
