package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/exam-seating/internal/dto"
	"github.com/noah-isme/exam-seating/internal/ingest"
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/internal/seating"
	"github.com/noah-isme/exam-seating/internal/service"
	"github.com/noah-isme/exam-seating/pkg/logger"
)

// errNotFound makes `find` exit non-zero on a miss.
var errNotFound = errors.New("roll number not found")

type options struct {
	students string
	proctors string
	rooms    int
	rows     int
	columns  int
	start    string
	end      string
	renames  []string
	seed     int64
	verbose  bool
}

func (o *options) request(cmd *cobra.Command) (dto.SeatingRequest, error) {
	students, err := readCSV(o.students, ingest.ReadRoster)
	if err != nil {
		return dto.SeatingRequest{}, fmt.Errorf("students: %w", err)
	}
	proctors, err := readCSV(o.proctors, ingest.ReadProctors)
	if err != nil {
		return dto.SeatingRequest{}, fmt.Errorf("proctors: %w", err)
	}
	req := dto.SeatingRequest{
		Students:  students,
		Proctors:  proctors,
		StartTime: o.start,
		EndTime:   o.end,
	}
	flags := cmd.Flags()
	if flags.Changed("rooms") {
		req.Rooms = &o.rooms
	}
	if flags.Changed("rows") {
		req.Rows = &o.rows
	}
	if flags.Changed("columns") {
		req.Columns = &o.columns
	}
	for _, raw := range o.renames {
		rename, err := dto.ParseRoomRename(raw)
		if err != nil {
			return dto.SeatingRequest{}, err
		}
		req.Renames = append(req.Renames, rename)
	}
	return req, nil
}

func (o *options) plan(cmd *cobra.Command) (*models.SeatingPlan, error) {
	req, err := o.request(cmd)
	if err != nil {
		return nil, err
	}
	logr, err := logger.NewCLI(o.verbose)
	if err != nil {
		return nil, err
	}
	defer logr.Sync() //nolint:errcheck

	var shuffler seating.Shuffler
	if o.seed != 0 {
		shuffler = rand.New(rand.NewSource(o.seed))
	}
	svc := service.NewSeatingService(nil, nil, nil, seating.NewProctorAssigner(shuffler), nil, logr, service.SeatingServiceConfig{})
	plan, _, err := svc.Plan(context.Background(), req, "")
	if err != nil {
		logr.Debug("seating run failed", zap.Error(err))
		return nil, err
	}
	return plan, nil
}

func runPlan(cmd *cobra.Command, opts *options, room string) error {
	plan, err := opts.plan(cmd)
	if err != nil {
		return err
	}
	view, err := service.NewPlanResponse(plan, false, room)
	if err != nil {
		return err
	}
	return printRooms(cmd.OutOrStdout(), view.Rooms, nil)
}

func runFind(cmd *cobra.Command, opts *options, roll string) error {
	plan, err := opts.plan(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	loc, ok := seating.Find(plan.Grid, roll, plan.Configuration.RoomNames)
	if !ok {
		fmt.Fprintf(out, "Roll Number %s not found\n", roll)
		return errNotFound
	}
	proctor, _ := plan.Assignment.Proctor(loc.Room)
	fmt.Fprintf(out, "%s sits in %s, row %d, %s (proctor %s, %s)\n",
		roll, loc.Room, loc.Row+1, loc.SeatLabel(), proctor, plan.Configuration.Window.String())

	view, err := service.NewPlanResponse(plan, false, loc.Room)
	if err != nil {
		return err
	}
	return printRooms(out, view.Rooms, &loc)
}

func runExport(cmd *cobra.Command, opts *options, format, out string) error {
	plan, err := opts.plan(cmd)
	if err != nil {
		return err
	}
	exporter := service.NewExportService(nil, nil, service.ExportConfig{}, nil, nil, nil, nil)
	rendered, err := exporter.Render(plan, models.ExportFormat(strings.ToLower(format)))
	if err != nil {
		return err
	}
	if out == "" {
		out = rendered.Filename
	}
	if err := os.WriteFile(out, rendered.Body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rooms, %d students)\n", out, plan.Configuration.Rooms, plan.Grid.Occupied())
	return nil
}

// printRooms renders rooms as text tables. The seat at highlight is bracketed.
func printRooms(w io.Writer, rooms []dto.RoomView, highlight *models.SeatLocation) error {
	for i, room := range rooms {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  Proctor: %s  Exam Time: %s\n", room.Name, room.Proctor, room.ExamTime)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Row\t%s\n", strings.Join(room.Columns, "\t"))
		for r, row := range room.Seats {
			cells := make([]string, len(row))
			for c, seat := range row {
				cells[c] = seat.Label()
				if highlight != nil && highlight.RoomIndex == room.Index && highlight.Row == r && highlight.Column == c {
					cells[c] = "[" + cells[c] + "]"
				}
			}
			fmt.Fprintf(tw, "%d\t%s\n", r+1, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func readCSV(path string, parse func(io.Reader) ([]string, error)) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}
