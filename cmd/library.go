package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anisan-cli/katalog/catalog"
	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/library"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryMergeCmd)
	libraryMergeCmd.SetOut(os.Stdout)
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Work with saved media records",
}

var libraryMergeCmd = &cobra.Command{
	Use:   "merge <file>...",
	Short: "Merge saved media records from JSON files in order and print the result",
	Long: `Merge saved media records from JSON files in order and print the result.
Each file holds one record or an array of records. Records are matched by global id.
Tracking fields a later record leaves out, or sets to -1, keep their earlier value.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := library.New()

		for _, path := range args {
			records, err := readSavedMedia(path)
			handleErr(err)

			for _, record := range records {
				if _, err := lib.Apply(record); err != nil {
					handleErr(fmt.Errorf("%s: %w", path, err))
				}
			}
		}

		encodeJSON(cmd, lib.All())
	},
}

func readSavedMedia(path string) ([]*catalog.SavedMedia, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var records []*catalog.SavedMedia
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return records, nil
	}

	var record catalog.SavedMedia
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return []*catalog.SavedMedia{&record}, nil
}
