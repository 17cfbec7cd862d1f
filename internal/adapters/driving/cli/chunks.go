package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrutiny/internal/core/domain"
)

var (
	chunksSyllabus  string
	chunksTextbooks []string
	chunksJSON      bool
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Show how sources are chunked",
	Long: `Chunk a syllabus or textbooks and print the resulting documents.

No embedding or LLM calls are made, so this is a quick way to tune the
chunking.* settings before a validation run.`,
	RunE: runChunks,
}

// chunkOutput is the JSON form of one document.
type chunkOutput struct {
	ChunkID  string            `json:"chunk_id"`
	Length   int               `json:"length"`
	Metadata map[string]string `json:"metadata"`
	Content  string            `json:"content"`
}

func init() {
	chunksCmd.Flags().StringVar(&chunksSyllabus, "syllabus", "", "syllabus JSON file")
	chunksCmd.Flags().StringArrayVar(&chunksTextbooks, "textbook", nil, "textbook PDF (repeatable)")
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, _ []string) error {
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}
	if chunksSyllabus == "" && len(chunksTextbooks) == 0 {
		return errors.New("one of --syllabus or --textbook is required")
	}

	var docs []domain.Document
	if chunksSyllabus != "" {
		data, err := os.ReadFile(chunksSyllabus)
		if err != nil {
			return fmt.Errorf("read syllabus: %w", err)
		}
		syllabusDocs, err := corpusService.SyllabusDocuments(data)
		if err != nil {
			return err
		}
		docs = append(docs, syllabusDocs...)
	}
	if len(chunksTextbooks) > 0 {
		textbookDocs, err := corpusService.TextbookDocuments(cmd.Context(), chunksTextbooks)
		if err != nil {
			return err
		}
		docs = append(docs, textbookDocs...)
	}

	if chunksJSON {
		out := make([]chunkOutput, len(docs))
		for i, doc := range docs {
			out[i] = chunkOutput{
				ChunkID:  doc.ChunkID(),
				Length:   utf8.RuneCountInString(doc.Content()),
				Metadata: doc.Metadata(),
				Content:  doc.Content(),
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents produced.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s (%d chars)\n", doc.ChunkID(), utf8.RuneCountInString(doc.Content()))
		if unit := doc.Meta(domain.MetaUnitID); unit != "" {
			cmd.Printf("  Unit: %s %s\n", unit, doc.Meta(domain.MetaUnitTitle))
		}
		if name := doc.Meta(domain.MetaDocumentName); name != "" {
			cmd.Printf("  Document: %s\n", name)
		}
		cmd.Printf("  %s\n\n", oneLine(doc.Content(), 120))
	}
	cmd.Printf("%d document(s)\n", len(docs))
	return nil
}
