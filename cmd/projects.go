package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/aeo-monitor/internal/model"
)

var (
	projectName     string
	projectBrand    string
	projectDomain   string
	projectIndustry string

	queryProjectID string
	queryText      string
	queryPriority  int
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage monitored projects and their tracked queries",
}

var projectsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.CreateProject(cmd.Context(), model.Project{
			Name:      projectName,
			BrandName: projectBrand,
			Domain:    projectDomain,
			Industry:  projectIndustry,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created project %s (%s)\n", p.ID, p.Name)
		return nil
	},
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		projects, err := st.ListProjects(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBRAND\tINDUSTRY\tSTATUS")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.BrandName, p.Industry, p.Status)
		}
		return w.Flush()
	},
}

var projectsAddQueryCmd = &cobra.Command{
	Use:   "add-query",
	Short: "Track a question for a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		q, err := st.AddQuery(cmd.Context(), model.TrackedQuery{
			ProjectID: queryProjectID,
			Text:      queryText,
			Priority:  queryPriority,
			IsActive:  true,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "added query %s to project %s\n", q.ID, q.ProjectID)
		return nil
	},
}

func init() {
	projectsAddCmd.Flags().StringVar(&projectName, "name", "", "project name")
	projectsAddCmd.Flags().StringVar(&projectBrand, "brand", "", "brand name to monitor")
	projectsAddCmd.Flags().StringVar(&projectDomain, "domain", "", "brand domain")
	projectsAddCmd.Flags().StringVar(&projectIndustry, "industry", "", "brand industry")
	_ = projectsAddCmd.MarkFlagRequired("name")
	_ = projectsAddCmd.MarkFlagRequired("brand")

	projectsAddQueryCmd.Flags().StringVar(&queryProjectID, "project", "", "project id")
	projectsAddQueryCmd.Flags().StringVar(&queryText, "text", "", "question to track")
	projectsAddQueryCmd.Flags().IntVar(&queryPriority, "priority", 1, "collection priority (higher first)")
	_ = projectsAddQueryCmd.MarkFlagRequired("project")
	_ = projectsAddQueryCmd.MarkFlagRequired("text")

	projectsCmd.AddCommand(projectsAddCmd, projectsListCmd, projectsAddQueryCmd)
	rootCmd.AddCommand(projectsCmd)
}
