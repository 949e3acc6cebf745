// Package console implements the interactive text interface: it prompts for
// a cell count, one chemistry per cell and one current per cell, then prints
// the resulting cell table.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"cell-monitor/internal/model"
	"cell-monitor/internal/registry"
)

// Session drives one prompt flow over a registry.
type Session struct {
	Registry *registry.Registry
	In       io.Reader
	Out      io.Writer

	// MaxCells bounds the accepted cell count; 0 means unbounded.
	MaxCells int
	// ShowStatus appends a status table and summary after the dump.
	ShowStatus bool

	scanner *bufio.Scanner
}

var (
	warnColor = color.New(color.FgYellow)

	statusColors = map[model.Status]*color.Color{
		model.StatusGood:     color.New(color.FgGreen, color.Bold),
		model.StatusWarning:  color.New(color.FgYellow, color.Bold),
		model.StatusCritical: color.New(color.FgRed, color.Bold),
	}
)

// ErrNoInput is returned when input ends before the flow completes.
var ErrNoInput = errors.New("input ended before all values were entered")

// Run executes the full prompt flow.
func (s *Session) Run() error {
	s.scanner = bufio.NewScanner(s.In)

	count, err := s.readCount()
	if err != nil {
		return err
	}

	labels := make([]string, 0, count)
	for i := 0; i < count; i++ {
		line, err := s.prompt("Enter cell type: ")
		if err != nil {
			return err
		}
		labels = append(labels, line)
	}

	s.Registry.Declare(count)
	if err := s.Registry.SetChemistries(labels); err != nil {
		return err
	}
	s.Registry.Materialize()

	fmt.Fprintln(s.Out, "\n--- Enter current (in Amperes) for each cell ---")
	for _, id := range s.Registry.IDs() {
		line, err := s.prompt(fmt.Sprintf("Enter current for %s: ", id))
		if err != nil {
			return err
		}
		if err := s.Registry.SetCurrentText(id, line); err != nil {
			if !errors.Is(err, registry.ErrInvalidCurrent) {
				return err
			}
			warnColor.Fprintln(s.Out, "Invalid input. Setting current to 0.")
		}
	}

	fmt.Fprintln(s.Out, "\n--- Updated Cell Data ---")
	if err := registry.WriteText(s.Out, s.Registry.Rows()); err != nil {
		return err
	}

	if s.ShowStatus {
		s.writeStatus()
	}
	return nil
}

func (s *Session) readCount() (int, error) {
	for {
		line, err := s.prompt("Enter the number of cells: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		switch {
		case err != nil:
			warnColor.Fprintln(s.Out, "Please enter a whole number.")
		case n < 1:
			warnColor.Fprintln(s.Out, "The number of cells must be at least 1.")
		case s.MaxCells > 0 && n > s.MaxCells:
			warnColor.Fprintf(s.Out, "The number of cells must be at most %d.\n", s.MaxCells)
		default:
			return n, nil
		}
	}
}

func (s *Session) prompt(text string) (string, error) {
	fmt.Fprint(s.Out, text)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return s.scanner.Text(), nil
}

func (s *Session) writeStatus() {
	fmt.Fprintln(s.Out, "\n--- Cell Status ---")
	for row := range s.Registry.Rows() {
		fmt.Fprintf(s.Out, "%-16s %-9s range %.1fV - %.1fV  temp %.1f°C\n",
			row.ID,
			StatusText(row.Status),
			row.MinVoltage,
			row.MaxVoltage,
			row.Temperature,
		)
	}
	if sum, ok := s.Registry.Summary(); ok {
		fmt.Fprintf(s.Out, "\nTotal Cells: %d  Avg Voltage: %.2fV  Avg Temp: %.1f°C  Total Capacity: %.2fWh\n",
			sum.TotalCells, sum.AvgVoltage, sum.AvgTemperature, sum.TotalCapacity)
	}
}

// StatusText returns the status label, colored when the output supports it.
func StatusText(st model.Status) string {
	if c, ok := statusColors[st]; ok {
		return c.Sprint(string(st))
	}
	return string(st)
}
