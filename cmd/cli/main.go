package main

import (
	"encoding/json"
	"fmt"
	"os"

	"goattend/adapters/excel"
	"goattend/adapters/llm"
	"goattend/app"
	"goattend/domain/attendance"
	"goattend/domain/schema"
	"goattend/internal/config"
	"goattend/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goattend-cli",
		Short: "Attendance sheet analyzer",
	}

	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var threshold float64
	var subject string
	var noAI bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze an attendance spreadsheet and report low-attendance students",
		Long: `Analyze an attendance spreadsheet (.xlsx, .xls or .csv), normalize the
percentage columns, and list every student below the threshold.

Example: goattend-cli analyze attendance.xlsx --threshold 75 --subject "Physics %"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			appConfig, err := config.Load()
			if err != nil {
				return err
			}

			var classifier ports.HeaderClassifier
			if !noAI && appConfig.AI.Enabled() {
				classifier = llm.NewHeaderClassifier(&appConfig.AI, nil, nil, appConfig.Data.SampleRows)
			}

			resolver := &schema.Resolver{ScanRows: appConfig.Data.ScanRows}
			service := app.NewAnalysisService(excel.NewLoader(), classifier, nil, resolver)

			result, err := service.AnalyzeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			report, err := service.LowAttendance(result, threshold, subject)
			if err != nil {
				return err
			}

			if asJSON {
				payload, err := json.MarshalIndent(map[string]interface{}{
					"analysis_id": result.ID.String(),
					"subjects":    result.Schema.SubjectNames(),
					"students":    result.Students,
					"shortfall":   report,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(payload))
				return nil
			}

			printResult(result, report, threshold, subject)
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 75, "minimum required attendance percentage")
	cmd.Flags().StringVar(&subject, "subject", "", "filter on one subject instead of the overall percentage")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the AI header classifier and use the heuristic only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

func printResult(result *attendance.AnalysisResult, report []attendance.ShortfallEntry, threshold float64, subject string) {
	fmt.Printf("Subjects: %v\n\n", result.Schema.SubjectNames())

	for _, student := range result.Students {
		overall := "n/a"
		if student.Overall != nil {
			overall = fmt.Sprintf("%.2f%%", *student.Overall)
		}
		fmt.Printf("%-30s overall %s\n", student.Name, overall)
	}

	dimension := "overall"
	if subject != "" {
		dimension = subject
	}
	fmt.Printf("\nStudents below %.1f%% (%s):\n", threshold, dimension)
	if len(report) == 0 {
		fmt.Println("  none")
		return
	}
	for _, entry := range report {
		fmt.Printf("  %-28s %.2f%%\n", entry.Name, entry.Value)
	}
}
