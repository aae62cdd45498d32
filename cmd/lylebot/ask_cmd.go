package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question about the uploaded documents",
	Example: `  lylebot ask "Who is Lyle?"
  lylebot ask --sources "What did Lyle work on in 2023?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		client := documentClient()

		answer, err := client.Ask(cmd.Context(), query)
		if err != nil {
			return err
		}

		fmt.Println(renderAnswer(answer.Response))

		if askShowSources && len(answer.Sources) > 0 {
			fmt.Println("Sources:")
			for _, src := range answer.Sources {
				url, err := client.ResolveDownload(cmd.Context(), src.DocID)
				if err != nil {
					fmt.Printf("  %s (link unavailable)\n", src.Name)
					continue
				}
				fmt.Printf("  %s  %s\n", src.Name, url)
			}
		}
		return nil
	},
}

// renderAnswer pretty-prints the markdown answer, falling back to the raw
// text if the renderer cannot be built.
func renderAnswer(text string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "resolve and print source download links")
}
