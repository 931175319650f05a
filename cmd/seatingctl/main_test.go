package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	students := filepath.Join(dir, "students.csv")
	proctors := filepath.Join(dir, "proctors.csv")
	require.NoError(t, os.WriteFile(students, []byte("Name,Roll Number\nAnn,A\nBo,B\nCy,C\n"), 0o600))
	require.NoError(t, os.WriteFile(proctors, []byte("Proctor\nAda\nBen\n"), 0o600))
	return students, proctors
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanPrintsEveryRoom(t *testing.T) {
	students, proctors := writeInputs(t)

	out, err := execute(t, "plan", "-s", students, "-p", proctors, "--rooms", "2", "--rows", "2", "--columns", "2", "--rename", "2=Hall B", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Room 1  Proctor: ")
	assert.Contains(t, out, "Hall B  Proctor: ")
	assert.Contains(t, out, "Exam Time: 09:00 AM - 12:00 PM")
	assert.Contains(t, out, "Seat 1")
	lines := strings.Split(out, "\n")
	assert.Equal(t, "1    A       B", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "2    C       Empty", strings.TrimRight(lines[3], " "))
}

func TestPlanSingleRoom(t *testing.T) {
	students, proctors := writeInputs(t)

	out, err := execute(t, "plan", "-s", students, "-p", proctors, "--rooms", "2", "--rows", "2", "--columns", "2", "--room", "Room 2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Room 1")
	assert.Contains(t, out, "Room 2")
}

func TestPlanReportsCapacityError(t *testing.T) {
	students, proctors := writeInputs(t)

	_, err := execute(t, "plan", "-s", students, "-p", proctors, "--rooms", "1", "--rows", "1", "--columns", "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCapacity))
}

func TestPlanRejectsExplicitZeroRows(t *testing.T) {
	students, proctors := writeInputs(t)

	_, err := execute(t, "plan", "-s", students, "-p", proctors, "--rows", "0")
	assert.True(t, errors.Is(err, appErrors.ErrConfiguration))
}

func TestFindHighlightsSeat(t *testing.T) {
	students, proctors := writeInputs(t)

	out, err := execute(t, "find", "C", "-s", students, "-p", proctors, "--rooms", "2", "--rows", "2", "--columns", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "C sits in Room 1, row 2, Seat 1")
	assert.Contains(t, out, "[C]")
	assert.NotContains(t, out, "Room 2")
}

func TestFindMiss(t *testing.T) {
	students, proctors := writeInputs(t)

	out, err := execute(t, "find", "Z", "-s", students, "-p", proctors, "--rooms", "2", "--rows", "2", "--columns", "2")
	assert.ErrorIs(t, err, errNotFound)
	assert.Contains(t, out, "Roll Number Z not found")
}

func TestExportWritesCSV(t *testing.T) {
	students, proctors := writeInputs(t)
	target := filepath.Join(t.TempDir(), "rooms.csv")

	out, err := execute(t, "export", "-s", students, "-p", proctors, "--rooms", "2", "--rows", "2", "--columns", "2", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "Room Name,Seat 1,Seat 2\nRoom 1,A,B\nRoom 1,C,Empty\nRoom 2,Empty,Empty\nRoom 2,Empty,Empty\n", string(body))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	students, proctors := writeInputs(t)

	_, err := execute(t, "export", "-s", students, "-p", proctors, "--format", "xlsx", "--out", filepath.Join(t.TempDir(), "x"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestMissingRollNumberColumn(t *testing.T) {
	_, proctors := writeInputs(t)
	students := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(students, []byte("Name,Roll\nAnn,A\n"), 0o600))

	_, err := execute(t, "plan", "-s", students, "-p", proctors)
	assert.True(t, errors.Is(err, appErrors.ErrMissingColumn))
}
