package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect effect content",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate an effect catalog",
	Long:  `Load an effect catalog and build every template once. Without a file the built-in catalog is checked.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  validateContent,
}

func init() {
	contentCmd.AddCommand(contentValidateCmd)
}

func validateContent(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	catalog, err := loadCatalog(path)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "built-in catalog"
	}
	fmt.Printf("%s: %d templates\n", source, catalog.Len())

	kinds := catalog.Kinds()
	for _, kind := range catalog.SortedKinds() {
		fmt.Printf("  %-18s %d\n", kind, kinds[kind])
	}
	for _, id := range catalog.IDs() {
		t, _ := catalog.Template(id)
		fmt.Printf("  - %s (%s, %d rounds, %s)\n", id, t.Name, t.Duration, t.Decay)
	}
	return nil
}
