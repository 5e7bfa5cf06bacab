package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/shopadmin/graph"
)

var (
	graphQuery     string
	graphFile      string
	graphVariables string
	graphOperation string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Run a GraphQL Admin API query",
	Long: `Run a GraphQL Admin API query or mutation and print the data member of the
response. Errors reported in the response body are returned as a failure.

Without --variables the document is sent as-is with the application/graphql
content type; with variables it is sent as a JSON request.`,
	Example: `  shopadmin graph --query '{ shop { name currencyCode } }'
  shopadmin graph --file order.graphql --variables '{"id":"gid://shopify/Order/1"}'`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphQuery, "query", "q", "", "GraphQL document")
	graphCmd.Flags().StringVarP(&graphFile, "file", "f", "", "file containing the GraphQL document, - for stdin")
	graphCmd.Flags().StringVar(&graphVariables, "variables", "", "query variables as a JSON object")
	graphCmd.Flags().StringVar(&graphOperation, "operation", "", "operation name when the document holds several")
	graphCmd.MarkFlagsMutuallyExclusive("query", "file")
	graphCmd.MarkFlagsOneRequired("query", "file")
}

func runGraph(cmd *cobra.Command, args []string) error {
	query, err := graphDocument(cmd)
	if err != nil {
		return err
	}

	var data json.RawMessage
	if graphVariables == "" && graphOperation == "" {
		data, err = graphService.Post(cmd.Context(), query)
	} else {
		req := graph.Request{Query: query, OperationName: graphOperation}
		if graphVariables != "" {
			if err := json.Unmarshal([]byte(graphVariables), &req.Variables); err != nil {
				return fmt.Errorf("invalid --variables: %w", err)
			}
		}
		data, err = graphService.PostJSON(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if data == nil {
		data = json.RawMessage("null")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(cmd.OutOrStdout())
	return err
}

func graphDocument(cmd *cobra.Command) (string, error) {
	if graphQuery != "" {
		return graphQuery, nil
	}

	var data []byte
	var err error
	if graphFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(graphFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read query: %w", err)
	}
	return string(data), nil
}
