package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"github.com/getmockd/echoidp/pkg/token"
)

func newTokenCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode and decode echoidp tokens",
		Long: `Encode a JSON value into a token, or decode a token back into JSON.

Tokens are the same ones the server issues: base64 of the JSON text, with no
signature and no expiry.`,
	}

	cmd.AddCommand(newTokenEncodeCommand(opts), newTokenDecodeCommand(opts))
	return cmd
}

// tokenOutput is the JSON form of token results.
type tokenOutput struct {
	Token string `json:"token"`
	Value any    `json:"value"`
}

func newTokenEncodeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [json|-]",
		Short: "Encode a JSON value into a token",
		Example: `  echoidp token encode '{"sub":"alice","exp":9999999999}'
  cat claims.json | echoidp token encode -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			if len(args) == 0 || args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				raw = data
			} else {
				raw = []byte(args[0])
			}

			value, err := parseJSON(raw)
			if err != nil {
				return err
			}
			tok, err := token.Encode(value)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return printResult(out, opts, tokenOutput{Token: tok, Value: value}, func() error {
				_, err := fmt.Fprintln(out, tok)
				return err
			})
		},
	}
}

func newTokenDecodeCommand(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Print the JSON value carried by a token",
		Example: `  echoidp token decode eyJzdWIiOiJhbGljZSJ9

  # Extract one claim with a JSONPath expression
  echoidp token decode --query '$.sub' eyJzdWIiOiJhbGljZSJ9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := token.Decode(args[0])
			if err != nil {
				return err
			}

			values := []any{value}
			if query != "" {
				values, err = queryValue(query, value)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			result := tokenOutput{Token: args[0], Value: value}
			if query != "" {
				result.Value = values
			}
			return printResult(out, opts, result, func() error {
				for _, v := range values {
					data, err := json.MarshalIndent(v, "", "  ")
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintln(out, string(data)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "JSONPath expression selecting part of the decoded value")
	return cmd
}

// queryValue evaluates a JSONPath expression against a decoded token value.
func queryValue(query string, value any) ([]any, error) {
	expr, err := jp.ParseString(query)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", query, err)
	}
	results := expr.Get(value)
	if len(results) == 0 {
		return nil, fmt.Errorf("query %q matched nothing", query)
	}
	return results, nil
}

// parseJSON parses exactly one JSON value, keeping numbers as written.
func parseJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON input: trailing data after value")
	}
	return v, nil
}
