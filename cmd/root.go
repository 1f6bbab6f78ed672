package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cs",
		Short:         "Class schedule CLI (cs): plan weekly class sessions",
		Long:          "cs keeps a weekly class timetable: add, edit and delete sessions, list them in day and time order, draw the week as an hour grid, or serve the schedule over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSessionCmd(app),
		newListCmd(app),
		newGridCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
