package cli

import (
	"fmt"
	"strings"

	"adlaan-backend/internal/generation"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		docType    string
		title      string
		params     []string
		clientName string
		caseNumber string
		orgName    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a document template to stdout",
		Long: `Generate renders the template for a document type with the given parameters.
Placeholders left unresolved are listed on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseDocumentType(docType)
			if err != nil {
				return err
			}
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			if _, ok := values["title"]; !ok && title != "" {
				values["title"] = title
			}

			engine := generation.NewEngine(generation.DefaultRegistry())
			doc, err := engine.Generate(cmd.Context(), generation.Request{
				Type:             t,
				Parameters:       values,
				ClientName:       clientName,
				CaseNumber:       caseNumber,
				OrganizationName: orgName,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), doc.Content)
			if doc.TemplateType != t {
				fmt.Fprintf(cmd.ErrOrStderr(), "no template for %s, used %s\n", t, doc.TemplateType)
			}
			if len(doc.Unresolved) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "unresolved placeholders: %s\n", strings.Join(doc.Unresolved, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "document type, e.g. NDA")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "template parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&clientName, "client", "", "client name")
	cmd.Flags().StringVar(&caseNumber, "case-number", "", "case number")
	cmd.Flags().StringVar(&orgName, "org", "", "organization name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// parseParams turns key=value pairs into template parameters. The value may
// itself contain '='.
func parseParams(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
