package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pulse-news/pkg/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagFormat  string
	flagNoAds   bool
	flagProject string
	flagDataset string
	flagAdSlot  string
)

var errNotArticle = errors.New("document did not normalize to an article")

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Normalize a raw content-store document and render its body",
	Long: `Render reads a raw post document (JSON, or YAML by extension), normalizes it
into the canonical article shape and renders the body with in-article ad slots.

Examples:
  pulse-news render post.json
  pulse-news render post.yml --format html --no-ads`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return renderDocument(f, filepath.Ext(args[0]), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&flagFormat, "format", "json", "Output format: json or html")
	renderCmd.Flags().BoolVar(&flagNoAds, "no-ads", false, "Do not insert in-article ad slots")
	renderCmd.Flags().StringVar(&flagProject, "project", os.Getenv("SANITY_PROJECT_ID"), "Project id used to resolve image asset references")
	renderCmd.Flags().StringVar(&flagDataset, "dataset", "production", "Dataset used to resolve image asset references")
	renderCmd.Flags().StringVar(&flagAdSlot, "ad-slot", "3456789012", "Ad slot id attached to in-article ad units")
}

func renderDocument(r io.Reader, ext string, w io.Writer) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var raw interface{}
	switch ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(content, &raw)
	default:
		err = json.Unmarshal(content, &raw)
	}
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	article := services.Normalize(raw)
	if article == nil {
		return errNotArticle
	}

	renderer := services.NewRenderer(services.NewImageURLBuilder(flagProject, flagDataset), flagAdSlot)
	units := renderer.Render(article.Body, !flagNoAds)

	switch flagFormat {
	case "html":
		for _, u := range units {
			if u.IsAd() {
				fmt.Fprintf(w, "<div class=\"ad ad-in-article\" data-key=%q data-ad-slot=%q></div>\n", u.Key, u.AdSlot)
				continue
			}
			fmt.Fprintln(w, u.HTML)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"article": article,
			"units":   units,
		})
	default:
		return fmt.Errorf("unsupported format: %s", flagFormat)
	}
}
