// Package wizard is the interactive terminal editor for the board
// configuration: list, add, edit and remove stops with gazetteer-backed
// search, then save with a backup of the previous file.
package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rodaine/table"

	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/search"
)

// Wizard drives the prompt loop. Input and output are injected so tests can
// script a session.
type Wizard struct {
	configPath string
	backupDir  string
	gazetteer  *search.Gazetteer
	in         *bufio.Scanner
	out        io.Writer

	cfg config.Config
}

// New builds a Wizard editing the config file at configPath.
func New(configPath string, gazetteer *search.Gazetteer, in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		configPath: configPath,
		backupDir:  filepath.Join(filepath.Dir(configPath), "backups"),
		gazetteer:  gazetteer,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run loads the configuration and loops over the main menu until the user
// saves or quits.
func (w *Wizard) Run() error {
	cfg, err := config.Load(w.configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		fmt.Fprintf(w.out, "No configuration at %s yet, starting fresh.\n", w.configPath)
	} else if err != nil {
		return err
	}
	w.cfg = cfg

	for {
		fmt.Fprintln(w.out)
		fmt.Fprintln(w.out, "1) List stops")
		fmt.Fprintln(w.out, "2) Add a stop")
		fmt.Fprintln(w.out, "3) Edit a stop")
		fmt.Fprintln(w.out, "4) Remove a stop")
		fmt.Fprintln(w.out, "5) Save and exit")
		fmt.Fprintln(w.out, "6) Exit without saving")
		switch w.prompt("Choose") {
		case "1":
			w.listStops()
		case "2":
			w.addStop()
		case "3":
			w.editStop()
		case "4":
			w.removeStop()
		case "5":
			if err := config.Save(w.configPath, w.cfg, w.backupDir); err != nil {
				fmt.Fprintf(w.out, "Save failed: %v\n", err)
				continue
			}
			fmt.Fprintf(w.out, "Saved %d stops to %s\n", len(w.cfg.Stops), w.configPath)
			return nil
		case "6", "":
			fmt.Fprintln(w.out, "Discarding changes.")
			return nil
		default:
			fmt.Fprintln(w.out, "Unknown choice.")
		}
	}
}

func (w *Wizard) prompt(label string) string {
	fmt.Fprintf(w.out, "%s: ", label)
	if !w.in.Scan() {
		return ""
	}
	return strings.TrimSpace(w.in.Text())
}

func (w *Wizard) confirm(label string) bool {
	answer := strings.ToLower(w.prompt(label + " [y/N]"))
	return answer == "y" || answer == "yes"
}

// stopName resolves a configured stop's display name via the gazetteer.
func (w *Wizard) stopName(id string) string {
	stop, ok, err := w.gazetteer.Lookup(id)
	if err != nil || !ok {
		return "?"
	}
	return stop.Name
}

func filterSummary(stop config.Stop) string {
	describe := func(lines map[string]string) string {
		parts := make([]string, 0, len(lines))
		for line, terminal := range lines {
			if terminal == "" {
				parts = append(parts, line)
			} else {
				parts = append(parts, line+"→"+terminal)
			}
		}
		return strings.Join(parts, ", ")
	}
	switch {
	case len(stop.LinesInclude) > 0:
		return "include " + describe(stop.LinesInclude)
	case len(stop.LinesExclude) > 0:
		return "exclude " + describe(stop.LinesExclude)
	default:
		return "all lines"
	}
}

func (w *Wizard) listStops() {
	if len(w.cfg.Stops) == 0 {
		fmt.Fprintln(w.out, "No stops configured.")
		return
	}
	tbl := table.New("#", "ID", "Name", "Lines", "Limit").WithWriter(w.out)
	for i, stop := range w.cfg.Stops {
		limit := stop.Limit
		if limit == 0 {
			limit = 100
		}
		tbl.AddRow(i+1, stop.ID, w.stopName(stop.ID), filterSummary(stop), limit)
	}
	tbl.Print()
}

// findStop searches the gazetteer until the user picks a stop or gives up.
func (w *Wizard) findStop(label string) (search.Stop, bool) {
	for {
		term := w.prompt(label + " (empty to cancel)")
		if term == "" {
			return search.Stop{}, false
		}
		matches, err := w.gazetteer.Search(term, 10)
		if err != nil {
			fmt.Fprintf(w.out, "Search failed: %v\n", err)
			return search.Stop{}, false
		}
		if len(matches) == 0 {
			fmt.Fprintf(w.out, "No stops match %q.\n", term)
			continue
		}
		if len(matches) == 1 {
			if w.confirm("Use " + matches[0].Label() + "?") {
				return matches[0], true
			}
			continue
		}
		for i, m := range matches {
			fmt.Fprintf(w.out, "%d) %s\n", i+1, m.Label())
		}
		n, err := strconv.Atoi(w.prompt("Choose"))
		if err != nil || n < 1 || n > len(matches) {
			fmt.Fprintln(w.out, "Invalid choice.")
			continue
		}
		return matches[n-1], true
	}
}

// promptLines reads a comma-separated line list and an optional terminal
// filter per line.
func (w *Wizard) promptLines() map[string]string {
	raw := w.prompt("Line numbers (comma-separated, e.g. 10, 22, F)")
	if raw == "" {
		return nil
	}
	lines := map[string]string{}
	for _, line := range strings.Split(raw, ",") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		terminal := ""
		if w.confirm("Filter line " + line + " by destination?") {
			if dest, ok := w.findStop("Destination for line " + line); ok {
				terminal = dest.Code
			}
		}
		lines[line] = terminal
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}

// promptFilters fills exactly one of the include/exclude maps, or neither.
func (w *Wizard) promptFilters(stop *config.Stop) {
	stop.LinesInclude = nil
	stop.LinesExclude = nil
	switch strings.ToLower(w.prompt("Filter lines? (i)nclude, (e)xclude, (n)one")) {
	case "i", "include":
		stop.LinesInclude = w.promptLines()
	case "e", "exclude":
		stop.LinesExclude = w.promptLines()
	}
}

func (w *Wizard) promptLimit(stop *config.Stop) {
	current := stop.Limit
	if current == 0 {
		current = 100
	}
	raw := w.prompt(fmt.Sprintf("API limit [%d]", current))
	if raw == "" {
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fmt.Fprintln(w.out, "Invalid limit, keeping current value.")
		return
	}
	stop.Limit = n
}

func (w *Wizard) addStop() {
	found, ok := w.findStop("Stop to display")
	if !ok {
		return
	}
	stop := config.Stop{ID: found.Code}
	w.promptFilters(&stop)
	w.promptLimit(&stop)
	w.cfg.Stops = append(w.cfg.Stops, stop)
	fmt.Fprintf(w.out, "Added %s (%s).\n", found.Name, found.Code)
}

// chooseStop picks one configured stop by its list number.
func (w *Wizard) chooseStop() int {
	if len(w.cfg.Stops) == 0 {
		fmt.Fprintln(w.out, "No stops configured.")
		return -1
	}
	w.listStops()
	n, err := strconv.Atoi(w.prompt("Stop number"))
	if err != nil || n < 1 || n > len(w.cfg.Stops) {
		fmt.Fprintln(w.out, "Invalid choice.")
		return -1
	}
	return n - 1
}

func (w *Wizard) editStop() {
	i := w.chooseStop()
	if i < 0 {
		return
	}
	stop := &w.cfg.Stops[i]
	for {
		fmt.Fprintf(w.out, "\nEditing %s (%s), %s\n", w.stopName(stop.ID), stop.ID, filterSummary(*stop))
		fmt.Fprintln(w.out, "1) Change stop")
		fmt.Fprintln(w.out, "2) Edit line filters")
		fmt.Fprintln(w.out, "3) Change API limit")
		fmt.Fprintln(w.out, "4) Toggle hide municipality")
		fmt.Fprintln(w.out, "5) Done")
		switch w.prompt("Choose") {
		case "1":
			if found, ok := w.findStop("New stop"); ok {
				stop.ID = found.Code
			}
		case "2":
			w.promptFilters(stop)
		case "3":
			w.promptLimit(stop)
		case "4":
			stop.HideMunicipality = !stop.HideMunicipality
			fmt.Fprintf(w.out, "Hide municipality: %v\n", stop.HideMunicipality)
		case "5", "":
			return
		default:
			fmt.Fprintln(w.out, "Unknown choice.")
		}
	}
}

func (w *Wizard) removeStop() {
	i := w.chooseStop()
	if i < 0 {
		return
	}
	stop := w.cfg.Stops[i]
	if !w.confirm(fmt.Sprintf("Remove %s (%s)?", w.stopName(stop.ID), stop.ID)) {
		return
	}
	w.cfg.Stops = append(w.cfg.Stops[:i], w.cfg.Stops[i+1:]...)
	fmt.Fprintln(w.out, "Stop removed.")
}
