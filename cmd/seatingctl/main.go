package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "seatingctl",
		Short:         "Exam seating arrangement tool",
		Long:          "Seats students room by room from a roster CSV, assigns one proctor per room,\nlocates a student's seat and exports every room as CSV or PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.students, "students", "s", "", "student roster CSV with a Roll Number column")
	flags.StringVarP(&opts.proctors, "proctors", "p", "", "proctor CSV, names in the first column")
	flags.IntVar(&opts.rooms, "rooms", 0, "number of rooms (default 2)")
	flags.IntVar(&opts.rows, "rows", 0, "rows per room (default 5)")
	flags.IntVar(&opts.columns, "columns", 0, "columns per room (default 6)")
	flags.StringVar(&opts.start, "start", "", "exam start time (default 09:00 AM)")
	flags.StringVar(&opts.end, "end", "", "exam end time (default 12:00 PM)")
	flags.StringArrayVar(&opts.renames, "rename", nil, "rename a room, e.g. --rename \"1=Hall A\" (repeatable)")
	flags.Int64Var(&opts.seed, "seed", 0, "seed for the proctor shuffle; 0 picks a random pairing")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log run details to stderr")
	_ = root.MarkPersistentFlagRequired("students")
	_ = root.MarkPersistentFlagRequired("proctors")

	var room string
	cmdPlan := &cobra.Command{
		Use:   "plan",
		Short: "print the seating arrangement of every room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, room)
		},
	}
	cmdPlan.Flags().StringVar(&room, "room", "", "only print this room")
	root.AddCommand(cmdPlan)

	cmdFind := &cobra.Command{
		Use:   "find <roll-number>",
		Short: "locate a student's seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, opts, args[0])
		},
	}
	root.AddCommand(cmdFind)

	var format, out string
	cmdExport := &cobra.Command{
		Use:   "export",
		Short: "write every room to a CSV or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, format, out)
		},
	}
	cmdExport.Flags().StringVarP(&format, "format", "f", "csv", "csv or pdf")
	cmdExport.Flags().StringVarP(&out, "out", "o", "", "output file (default all_rooms.<format>)")
	root.AddCommand(cmdExport)

	return root
}
