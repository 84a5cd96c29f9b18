package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"adlaan-backend/internal/models"
	"adlaan-backend/internal/services"

	"github.com/spf13/cobra"
)

var importExtensions = map[string]bool{".txt": true, ".md": true}

type documentCreator interface {
	Create(ctx context.Context, doc *models.Document) error
}

func newImportCmd() *cobra.Command {
	var (
		ownerID  uint
		caseID   uint
		classify bool
	)
	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Import text files as documents",
		Long: `Import creates one OTHER document per .txt or .md file in DIR for the given
user. With --classify it then runs a classification task over them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			owner, err := rt.dir.GetUser(ctx, ownerID)
			if err != nil {
				return fmt.Errorf("owner %d: %w", ownerID, err)
			}
			var scope *uint
			if caseID != 0 {
				if _, err := rt.dir.GetCase(ctx, owner.OrganizationID, caseID); err != nil {
					return fmt.Errorf("case %d: %w", caseID, err)
				}
				scope = &caseID
			}

			ids, err := importDocuments(ctx, rt.docs, args[0], owner, scope)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents\n", len(ids))
			if !classify {
				return nil
			}

			caller := services.Caller{UserID: owner.ID, OrganizationID: owner.OrganizationID}
			task, err := rt.svc.SubmitClassification(ctx, caller, services.ClassificationRequest{DocumentIDs: ids})
			if err != nil {
				return err
			}
			// A worker may pick the task up first; Process then leaves it alone.
			if err := rt.svc.Process(ctx, task.ID); err != nil {
				return err
			}
			done, err := rt.svc.GetTask(ctx, caller, models.TaskKindClassifyDocuments, task.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "classification task %d %s\n", done.ID, done.Status)
			return nil
		},
	}
	cmd.Flags().UintVar(&ownerID, "owner", 0, "id of the user the documents belong to")
	cmd.Flags().UintVar(&caseID, "case", 0, "id of the case to attach the documents to")
	cmd.Flags().BoolVar(&classify, "classify", false, "classify the imported documents")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

// importDocuments creates a document for every supported file directly in
// dir, in name order, and returns their ids.
func importDocuments(ctx context.Context, docs documentCreator, dir string, owner *models.User, caseID *uint) ([]uint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ids []uint
	for _, entry := range entries {
		if entry.IsDir() || !importExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return ids, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc := &models.Document{
			OrganizationID: owner.OrganizationID,
			OwnerID:        owner.ID,
			CaseID:         caseID,
			Title:          titleFromPath(path),
			Content:        string(content),
			DocumentType:   models.DocumentTypeOther,
		}
		if err := docs.Create(ctx, doc); err != nil {
			return ids, fmt.Errorf("failed to import %s: %w", path, err)
		}
		ids = append(ids, doc.ID)
	}
	if len(ids) == 0 {
		return nil, errors.New("no .txt or .md files found")
	}
	return ids, nil
}
