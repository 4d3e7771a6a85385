package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

var treeCmd = &cobra.Command{
	Use:   "tree [id-or-path]",
	Short: "Print the item tree",
	Long:  `Prints the tree below the given item, or below the root item when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

var itemCmd = &cobra.Command{
	Use:   "item [id-or-path]",
	Short: "Show an item definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runItem,
}

var childrenCmd = &cobra.Command{
	Use:   "children [id-or-path]",
	Short: "List the children of an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runChildren,
}

var fieldsCmd = &cobra.Command{
	Use:   "fields [id-or-path]",
	Short: "Print the field values of a version",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List template items",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

var (
	fieldsLanguage string
	fieldsVersion  int
	treeDepth      int
)

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Maximum depth (0 for unlimited)")
	fieldsCmd.Flags().StringVarP(&fieldsLanguage, "lang", "l", fixturecontent.DefaultLanguage, "Version language")
	fieldsCmd.Flags().IntVarP(&fieldsVersion, "version", "n", 1, "Version number")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(childrenCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	start := fixturecontent.RootID.String()
	if len(args) == 1 {
		start = args[0]
	}
	def, err := lookup(start)
	if err != nil {
		return err
	}

	var walk func(def *fixturecontent.ItemDefinition, depth int)
	walk = func(def *fixturecontent.ItemDefinition, depth int) {
		cmd.Printf("%s%s  %s\n", strings.Repeat("  ", depth), def.Name, def.ID)
		if treeDepth > 0 && depth+1 >= treeDepth {
			return
		}
		for _, childID := range provider.GetChildIDs(def, nil).IDs() {
			if child := provider.GetItemDefinition(childID, nil); child != nil {
				walk(child, depth+1)
			}
		}
	}
	walk(def, 0)
	return nil
}

func runItem(cmd *cobra.Command, args []string) error {
	def, err := lookup(args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID:       %s\n", def.ID)
	cmd.Printf("Name:     %s\n", def.Name)
	cmd.Printf("Path:     %s\n", provider.GetItemPath(def, nil))
	cmd.Printf("Template: %s\n", def.TemplateID)
	cmd.Printf("Parent:   %s\n", provider.GetParentID(def, nil))
	if !def.BranchID.IsNull() {
		cmd.Printf("Branch:   %s\n", def.BranchID)
	}

	versions := provider.GetItemVersions(def, nil)
	cmd.Printf("Versions: %d\n", versions.Len())
	for _, uri := range versions.URIs() {
		cmd.Printf("  %s #%d\n", uri.Language, uri.Number)
	}
	return nil
}

func runChildren(cmd *cobra.Command, args []string) error {
	def, err := lookup(args[0])
	if err != nil {
		return err
	}

	children := provider.GetChildIDs(def, nil)
	if children.Len() == 0 {
		cmd.Printf("No children found for: %s\n", provider.GetItemPath(def, nil))
		return nil
	}
	for _, childID := range children.IDs() {
		if child := provider.GetItemDefinition(childID, nil); child != nil {
			cmd.Printf("%s  %s\n", child.ID, child.Name)
		}
	}
	return nil
}

func runFields(cmd *cobra.Command, args []string) error {
	def, err := lookup(args[0])
	if err != nil {
		return err
	}

	values := provider.GetItemFields(def, fixturecontent.VersionURI{Language: fieldsLanguage, Number: fieldsVersion}, nil).Map()
	ids := make([]fixturecontent.ID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		cmd.Printf("%s = %q\n", id, values[id])
	}
	return nil
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	templates := provider.GetTemplateItemIDs(nil)
	for _, id := range templates.IDs() {
		def := provider.GetItemDefinition(id, nil)
		cmd.Printf("%s  %s\n", id, provider.GetItemPath(def, nil))
	}
	cmd.Printf("Total: %d templates\n", templates.Len())
	return nil
}
