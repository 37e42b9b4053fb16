package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gigurra/petrol-book/internal"
	"github.com/gigurra/petrol-book/internal/form"
	"github.com/gigurra/petrol-book/internal/sqlite"
	"github.com/gigurra/petrol-book/internal/web"
)

var nowFunc = time.Now

type ShowParams struct {
	File        string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config      string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	PerDistance int    `descr:"Reference distance for consumption and cost ratios (default from config, else 100)" optional:"true"`
	Output      string `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Limit       int    `descr:"Show only the most recent N records" optional:"true"`
	Station     string `descr:"Show only records whose petrol station contains this text" optional:"true"`
	NoColor     bool   `descr:"Disable colored output" optional:"true"`
	Verbose     bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type AddParams struct {
	File         string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config       string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	Date         string `descr:"Fueling date, YYYY-MM-DD (default today)" optional:"true"`
	Time         string `descr:"Fueling time, HH:MM (default now)" optional:"true"`
	Station      string `descr:"Petrol station" optional:"true"`
	PetrolType   string `descr:"Petrol type, e.g. Super E10" optional:"true"`
	Costs        string `descr:"Amount paid" optional:"true"`
	Liquid       string `descr:"Amount of fuel" optional:"true"`
	Distance     string `descr:"Distance driven since the previous fueling" optional:"true"`
	Mileage      string `descr:"Odometer reading" optional:"true"`
	Manufacturer string `descr:"Vehicle manufacturer, required for a new petrol book" optional:"true"`
	Model        string `descr:"Vehicle model, required for a new petrol book" optional:"true"`
	Partial      bool   `descr:"Record the mileage without a fill-up" optional:"true"`
	Verbose      bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type FormParams struct {
	File    string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config  string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	Verbose bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type ServeParams struct {
	File        string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config      string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	Addr        string `descr:"Listen address" env:"PETROL_BOOK_ADDR" default:"localhost:8080"`
	PerDistance int    `descr:"Reference distance for consumption and cost ratios (default from config, else 100)" optional:"true"`
	Verbose     bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type ImportParams struct {
	Source       string `descr:"File to import, optionally prefixed with its format (xlsx:, simple-json:)" positional:"true"`
	File         string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config       string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	Manufacturer string `descr:"Vehicle manufacturer, required for a new petrol book" optional:"true"`
	Model        string `descr:"Vehicle model, required for a new petrol book" optional:"true"`
	Verbose      bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type ExportParams struct {
	Target      string `descr:"Output file (.xlsx, .db or .sqlite)" positional:"true"`
	File        string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config      string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	PerDistance int    `descr:"Reference distance for consumption and cost ratios (default from config, else 100)" optional:"true"`
	Verbose     bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type StationsParams struct {
	File           string `descr:"Petrol book JSON file" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config         string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	Match          string `descr:"Show only stations containing this text" optional:"true"`
	SuggestAliases bool   `descr:"Suggest station aliases for differently spelled stations" optional:"true"`
	Verbose        bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

type ConfigParams struct {
	File    string `descr:"Petrol book whose stations seed the template" short:"f" env:"PETROL_BOOK_FILE" optional:"true"`
	Config  string `descr:"Config file (default ~/.petrol-book/config.yaml)" optional:"true"`
	Write   bool   `descr:"Write the template to the config file instead of printing it" optional:"true"`
	Force   bool   `descr:"Overwrite an existing config file" optional:"true"`
	Verbose bool   `descr:"Enable debug logging" short:"v" optional:"true"`
}

// session is the config and petrol book a command works on
type session struct {
	cfg   *internal.Config
	store *internal.LogStore
}

func openSession(configPath, file string) (*session, error) {
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfigOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	path := file
	if path == "" {
		path = cfg.LogPath()
	}
	slog.Debug("Using petrol book", "path", path, "config", configPath)
	return &session{cfg: cfg, store: internal.NewLogStore(path, cfg.NewDocumentUnits())}, nil
}

func (s *session) referenceDistance(flag int) int {
	if flag != 0 {
		return flag
	}
	return s.cfg.ReferenceDistance()
}

func (s *session) table(perDistance int) (*internal.Document, internal.Table, error) {
	doc, _, err := s.store.Load()
	if err != nil {
		return nil, internal.Table{}, err
	}
	table, err := internal.BuildTable(doc, s.referenceDistance(perDistance))
	if err != nil {
		return nil, internal.Table{}, err
	}
	return doc, table, nil
}

func runShow(w io.Writer, p *ShowParams) error {
	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}
	_, table, err := s.table(p.PerDistance)
	if err != nil {
		return err
	}

	opts := internal.OutputOptions{Limit: p.Limit, Station: p.Station, NoColor: p.NoColor}
	if p.Output == "json" {
		return internal.PrintTableJSON(w, table, opts)
	}
	internal.PrintTable(w, table, opts)
	return nil
}

func runAdd(w io.Writer, p *AddParams, now time.Time) error {
	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}
	doc, _, err := s.store.Load()
	if err != nil {
		return err
	}
	setMeta(doc, p.Manufacturer, p.Model)

	in := internal.NewEntryInput(now)
	if p.Date != "" {
		in.Date = p.Date
	}
	if p.Time != "" {
		in.Time = p.Time
	}
	in.Station = s.cfg.CanonicalStation(internal.CompleteStation(doc, p.Station))
	in.PetrolType = p.PetrolType
	in.Costs = p.Costs
	in.Liquid = p.Liquid
	in.Distance = p.Distance
	in.Mileage = p.Mileage

	add := internal.AddRecord
	if p.Partial {
		add = internal.AddPartialRecord
	}
	rec, err := add(doc, in)
	if err != nil {
		return err
	}
	if err := s.store.Save(doc); err != nil {
		return err
	}

	fmt.Fprintf(w, "Added fueling of %s %s at %s (%d records)\n", rec.Date, rec.Time, stationLabel(rec.PetrolStation), len(doc.FuelingOperations))
	return nil
}

func runForm(w io.Writer, p *FormParams) error {
	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}
	doc, _, err := s.store.Load()
	if err != nil {
		return err
	}

	result, err := form.Run(doc, s.cfg, nowFunc())
	if errors.Is(err, form.ErrCanceled) {
		fmt.Fprintln(w, "Canceled, nothing saved.")
		return nil
	}
	if err != nil {
		return err
	}

	doc.Meta = result.Meta
	result.Entry.Station = s.cfg.CanonicalStation(result.Entry.Station)
	rec, err := internal.AddRecord(doc, result.Entry)
	if err != nil {
		return err
	}
	if err := s.store.Save(doc); err != nil {
		return err
	}

	fmt.Fprintf(w, "Added fueling of %s %s at %s (%d records)\n", rec.Date, rec.Time, stationLabel(rec.PetrolStation), len(doc.FuelingOperations))
	return nil
}

func runServe(p *ServeParams) error {
	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(s.store, web.Options{
		ReferenceDistance: p.PerDistance,
		Config:            s.cfg,
	})
	fmt.Printf("Serving %s on http://%s\n", s.store.Path(), p.Addr)
	return srv.ListenAndServe(ctx, p.Addr)
}

func runImport(w io.Writer, p *ImportParams) error {
	format, path := internal.ParseFileArg(p.Source)
	if format == "" {
		format = internal.DetectImportFormat(path)
	}
	if format == "" {
		return fmt.Errorf("can not detect the format of %s, prefix it with one of %v", path, internal.AvailableImporters())
	}
	importer, err := internal.GetImporter(format)
	if err != nil {
		return err
	}

	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}
	doc, _, err := s.store.Load()
	if err != nil {
		return err
	}
	setMeta(doc, p.Manufacturer, p.Model)

	entries, err := importer.Import(path)
	if err != nil {
		return err
	}
	added, problems, err := internal.ImportEntries(doc, entries, s.cfg)
	if err != nil {
		return err
	}
	for _, problem := range problems {
		fmt.Fprintf(w, "Skipped %v\n", problem)
	}
	if added == 0 {
		fmt.Fprintf(w, "Nothing imported from %s\n", path)
		return nil
	}
	if err := s.store.Save(doc); err != nil {
		return err
	}

	fmt.Fprintf(w, "Imported %d of %d entries from %s (%d records)\n", added, len(entries), path, len(doc.FuelingOperations))
	return nil
}

func runExport(w io.Writer, p *ExportParams, now time.Time) error {
	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}
	doc, table, err := s.table(p.PerDistance)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(p.Target)) {
	case ".xlsx":
		err = internal.ExportXLSX(table, p.Target, now)
	case ".db", ".sqlite", ".sqlite3":
		err = sqlite.Export(context.Background(), p.Target, doc, table, now)
	default:
		return fmt.Errorf("%w: unsupported export file %q, use .xlsx, .db or .sqlite", internal.ErrInvalidInput, p.Target)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Exported %d records to %s\n", len(table.Rows), p.Target)
	return nil
}

func runStations(w io.Writer, p *StationsParams) error {
	s, err := openSession(p.Config, p.File)
	if err != nil {
		return err
	}
	doc, _, err := s.store.Load()
	if err != nil {
		return err
	}

	if p.SuggestAliases {
		internal.PrintAliasSuggestions(w, internal.SuggestStationAliases(doc))
		return nil
	}
	internal.PrintStations(w, internal.MatchStations(doc, p.Match))
	return nil
}

func runConfig(w io.Writer, p *ConfigParams) error {
	configPath := p.Config
	if configPath == "" {
		configPath = internal.DefaultConfigPath()
	}

	s, err := openSession(configPath, p.File)
	if err != nil {
		return err
	}
	doc, _, err := s.store.Load()
	if err != nil {
		return err
	}
	template := internal.GenerateConfigTemplate(doc)

	if !p.Write {
		data, err := yaml.Marshal(template)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !p.Force {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", configPath)
	}
	if err := template.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote config to %s\n", configPath)
	return nil
}

func setMeta(doc *internal.Document, manufacturer, model string) {
	if m := strings.TrimSpace(manufacturer); m != "" {
		doc.Meta.Manufacturer = m
	}
	if m := strings.TrimSpace(model); m != "" {
		doc.Meta.Model = m
	}
}

func stationLabel(name string) string {
	if name == "" {
		return "unknown station"
	}
	return name
}
