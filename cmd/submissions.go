package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"charm.land/glamour/v2"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/coursewiz/internal/course"
	"github.com/abhisek/coursewiz/internal/store"
	"github.com/abhisek/coursewiz/internal/wizard"
)

var submissionsCmd = &cobra.Command{
	Use:     "submissions",
	Aliases: []string{"subs"},
	Short:   "Inspect and export submitted courses",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		subs, err := s.SubmissionRepo().List(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query submissions: %w", err)
		}
		if len(subs) == 0 {
			fmt.Println("No submissions found.")
			return nil
		}

		fmt.Printf("%-8s  %-19s  %-36s  %-7s  %-7s  %s\n",
			"ID", "Created", "Title", "Modules", "Lessons", "Model")
		fmt.Println(strings.Repeat("─", 100))
		for _, sub := range subs {
			fmt.Printf("%-8s  %-19s  %-36s  %-7d  %-7d  %s\n",
				truncate(sub.ID, 8),
				sub.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(sub.CourseTitle, 36),
				sub.ModuleCount,
				sub.LessonCount,
				sub.Model,
			)
		}
		return nil
	},
}

var submissionsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Render a submitted course outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		values, _, err := loadSubmission(cmd, args[0])
		if err != nil {
			return err
		}

		md := values.Markdown()
		if raw {
			fmt.Print(md)
			return nil
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		out, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("render outline: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

var submissionsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a submitted course as YAML, JSON or Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		values, sub, err := loadSubmission(cmd, args[0])
		if err != nil {
			return err
		}

		data, ext, err := encodeSubmission(values, format)
		if err != nil {
			return err
		}

		switch output {
		case "-":
			_, err = os.Stdout.Write(data)
			return err
		case "":
			output = exportFileName(sub.CourseTitle, sub.ID, ext)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Println("Exported", output)
		return nil
	},
}

func loadSubmission(cmd *cobra.Command, id string) (course.FormValues, *store.Submission, error) {
	s, _, err := openStore(cmd)
	if err != nil {
		return course.FormValues{}, nil, err
	}
	defer s.Close()

	sub, err := s.SubmissionRepo().Get(context.Background(), id)
	if err != nil {
		return course.FormValues{}, nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return course.FormValues{}, nil, fmt.Errorf("submission %q not found", id)
	}
	values, err := wizard.DecodeSubmission(sub)
	if err != nil {
		return course.FormValues{}, nil, err
	}
	return values, sub, nil
}

// encodeSubmission renders values in format and returns the file extension
// to use for it.
func encodeSubmission(values course.FormValues, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(values)
		if err != nil {
			return nil, "", fmt.Errorf("encode yaml: %w", err)
		}
		return data, ".yaml", nil
	case "json":
		data, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), ".json", nil
	case "md", "markdown":
		return []byte(values.Markdown()), ".md", nil
	}
	return nil, "", fmt.Errorf("unknown format %q (want yaml, json or md)", format)
}

// exportFileName derives a file name from the course title, falling back
// to the submission ID.
func exportFileName(title, id, ext string) string {
	name := slug.Make(title)
	if name == "" {
		name = "course-" + truncate(id, 8)
	}
	return name + ext
}

func init() {
	submissionsListCmd.Flags().IntP("limit", "n", 20, "Number of submissions to show")
	submissionsViewCmd.Flags().Bool("raw", false, "Print Markdown without rendering")
	submissionsExportCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json or md")
	submissionsExportCmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default: slug of the course title)")

	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsViewCmd)
	submissionsCmd.AddCommand(submissionsExportCmd)
}
