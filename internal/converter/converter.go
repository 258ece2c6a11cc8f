// =============================================================================
// EDI Order Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the entire
// conversion pipeline for a single input file, from reading the orders to
// writing the output file.
//
// CONVERSION PIPELINE:
//   1. Resolve the reader from the input file extension
//   2. Resolve the writer from the output format name
//   3. Read the input file into an order collection
//   4. Apply the selection (all, date range, or index list)
//   5. Apply transformation rules to copies of the selected orders
//   6. Log value-shape warnings (EDI output only)
//   7. Render the output into memory
//   8. Write the output file
//
// Steps 1 and 2 happen before any file is touched, and the output file is
// only created once rendering has succeeded, so a failed conversion never
// leaves a partial output behind.
//
// FORMATS:
//
//   | Name | Extension | Reader | Writer |
//   |------|-----------|--------|--------|
//   | txt  | .txt      | yes    | yes    |
//   | json | .json     | yes    | yes    |
//   | edi  | .edi      | yes    | yes    |
//   | xlsx | .xlsx     | yes    | yes    |
//
// =============================================================================

package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Disha-1203/EDI-parser/internal/config"
	"github.com/Disha-1203/EDI-parser/internal/edicodec"
	"github.com/Disha-1203/EDI-parser/internal/filter"
	"github.com/Disha-1203/EDI-parser/internal/jsoncodec"
	"github.com/Disha-1203/EDI-parser/internal/order"
	"github.com/Disha-1203/EDI-parser/internal/txtcodec"
	"github.com/Disha-1203/EDI-parser/internal/validation"
	"github.com/Disha-1203/EDI-parser/internal/xlsxcodec"
	"github.com/Disha-1203/EDI-parser/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedInput is returned when the input file extension has no
	// reader.
	ErrUnsupportedInput = errors.New("unsupported input file type")

	// ErrInvalidOutputFormat is returned when the output format name has no
	// writer.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrNoOrdersSelected is returned when nothing is left to write.
	ErrNoOrdersSelected = errors.New("no orders selected")

	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
)

// =============================================================================
// CODEC INTERFACES
// =============================================================================

// Reader decodes an order collection.
type Reader interface {
	Read(r io.Reader) (order.Collection, error)
}

// Writer encodes an order collection.
type Writer interface {
	Write(w io.Writer, orders order.Collection) error
}

// Output format names.
const (
	FormatTXT  = "txt"
	FormatJSON = "json"
	FormatEDI  = "edi"
	FormatXLSX = "xlsx"
)

// Formats lists the supported format names.
var Formats = []string{FormatTXT, FormatJSON, FormatEDI, FormatXLSX}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Request describes one conversion.
type Request struct {
	// InputPath is the file to read. Its extension selects the reader.
	InputPath string

	// OutputFormat is one of Formats.
	OutputFormat string

	// Selection picks the orders to convert. nil selects every order.
	// A filter.IndexList switches to single mode, which changes the
	// output base name to "output_single".
	Selection filter.Selection
}

// Result represents the outcome of a conversion.
type Result struct {
	// InputPath is the path to the input file that was processed.
	InputPath string

	// OutputFile is the path to the generated file.
	// This is empty if the conversion failed.
	OutputFile string

	// Format is the normalized output format name.
	Format string

	// Loaded reports whether the input file was read. Stats.Read is only
	// meaningful when it is true.
	Loaded bool

	// Stats contains processing statistics.
	Stats Stats

	// InvalidIndices are requested indices that were out of range.
	InvalidIndices []int

	// Skipped are the orders the EDI writer left out under the skip policy.
	Skipped []*validation.FieldError

	// Warnings are value-shape findings on the written orders.
	Warnings []*validation.ValidationError
}

// Stats contains statistics about the conversion.
type Stats struct {
	// Read is the number of orders in the input file.
	Read int

	// Selected is the number of orders the selection kept.
	Selected int

	// Written is the number of orders in the output file.
	Written int

	// Skipped is the number of selected orders left out of the output.
	Skipped int

	// OutputBytes is the size of the output file.
	OutputBytes int64

	// ProcessingTime is the time taken by the conversion.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs conversions with one configuration.
type Converter struct {
	cfg         *config.Config
	logger      *zap.Logger
	transformer *Transformer
	policy      edicodec.MissingFieldPolicy
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The configuration. nil selects config.Default().
//   - opts: Functional options.
//
// RETURNS:
//   - An error if the transformation rules or the EDI missing field policy
//     are invalid.
func New(cfg *config.Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	transformer, err := NewTransformer(cfg.Transformations)
	if err != nil {
		return nil, fmt.Errorf("failed to load transformation rules: %w", err)
	}

	policy, err := edicodec.ParseMissingFieldPolicy(cfg.EDI.MissingFieldPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid EDI settings: %w", err)
	}

	c := &Converter{
		cfg:         cfg,
		logger:      zap.NewNop(),
		transformer: transformer,
		policy:      policy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert executes the conversion pipeline for one request.
//
// RETURNS:
//   - A Result with paths and statistics. It is non-nil even on error and
//     holds whatever was known when the error occurred.
//   - An error wrapping ErrUnsupportedInput, ErrInvalidOutputFormat,
//     ErrInputNotFound, ErrNoOrdersSelected, validation.ErrMissingField,
//     validation.ErrInvalidValue, or an I/O failure.
func (c *Converter) Convert(req Request) (*Result, error) {
	start := time.Now()
	result := &Result{InputPath: req.InputPath}

	log := c.logger.With(zap.String("input", req.InputPath))

	// =========================================================================
	// STEP 1-2: RESOLVE FORMATS
	// =========================================================================

	reader, err := c.readerFor(req.InputPath)
	if err != nil {
		return result, err
	}

	format, err := NormalizeFormat(req.OutputFormat)
	if err != nil {
		return result, err
	}
	result.Format = format

	writer := c.writerFor(format, result, log)

	selection := req.Selection
	if selection == nil {
		selection = filter.All{}
	}

	// =========================================================================
	// STEP 3: READ INPUT
	// =========================================================================

	orders, err := c.read(req.InputPath, reader)
	if err != nil {
		return result, err
	}
	result.Loaded = true
	result.Stats.Read = len(orders)
	log.Info("Read orders", zap.Int("orders", len(orders)))

	// =========================================================================
	// STEP 4: SELECT
	// =========================================================================

	selected, err := selection.Apply(orders)
	if err != nil {
		return result, fmt.Errorf("failed to select orders: %w", err)
	}
	result.InvalidIndices = selected.Invalid
	result.Stats.Selected = len(selected.Orders)

	for _, idx := range selected.Invalid {
		log.Warn("Order index out of range", zap.Int("index", idx), zap.Int("orders", len(orders)))
	}
	log.Info("Selected orders",
		zap.Stringer("selection", selection),
		zap.Int("orders", len(selected.Orders)))

	if len(selected.Orders) == 0 {
		return result, ErrNoOrdersSelected
	}

	// =========================================================================
	// STEP 5: TRANSFORM
	// =========================================================================

	toWrite, err := c.transformer.TransformOrders(selected.Orders)
	if err != nil {
		return result, fmt.Errorf("failed to apply transformations: %w", err)
	}

	// =========================================================================
	// STEP 6: VALIDATE
	// =========================================================================

	if format == FormatEDI {
		result.Warnings = validation.Validate(toWrite)
		for _, w := range result.Warnings {
			log.Warn("Validation warning", zap.String("detail", w.Error()))
		}
	}

	// =========================================================================
	// STEP 7: RENDER
	// =========================================================================

	var buf bytes.Buffer
	if err := writer.Write(&buf, toWrite); err != nil {
		return result, fmt.Errorf("failed to write %s output: %w", format, err)
	}

	result.Stats.Skipped = len(result.Skipped)
	result.Stats.Written = len(toWrite) - result.Stats.Skipped
	if result.Stats.Written == 0 {
		return result, fmt.Errorf("%w: all %d selected orders were skipped", ErrNoOrdersSelected, len(toWrite))
	}

	// =========================================================================
	// STEP 8: WRITE OUTPUT FILE
	// =========================================================================

	name := c.outputName(format, isSingle(selection))
	outputPath, err := utils.WriteOutputFile(c.cfg.OutputDir, name, buf.Bytes())
	if err != nil {
		return result, err
	}

	size, err := utils.GetFileSize(outputPath)
	if err != nil {
		return result, fmt.Errorf("failed to stat output file: %w", err)
	}

	result.OutputFile = outputPath
	result.Stats.OutputBytes = size
	result.Stats.ProcessingTime = time.Since(start)

	log.Info("Wrote output",
		zap.String("output", outputPath),
		zap.Int64("bytes", size),
		zap.Int("orders", result.Stats.Written),
		zap.Int("skipped", result.Stats.Skipped),
		zap.Duration("elapsed", result.Stats.ProcessingTime))

	return result, nil
}

// Load reads every order from the input file.
func (c *Converter) Load(inputPath string) (order.Collection, error) {
	reader, err := c.readerFor(inputPath)
	if err != nil {
		return nil, err
	}
	return c.read(inputPath, reader)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NormalizeFormat trims and lower-cases a format name and checks that a
// writer exists for it.
func NormalizeFormat(name string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrInvalidOutputFormat, name, strings.Join(Formats, ", "))
}

// readerFor picks the reader from the file extension.
func (c *Converter) readerFor(path string) (Reader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		return txtcodec.New(), nil
	case ".json":
		return jsoncodec.New(c.cfg.JSONIndent), nil
	case ".edi":
		return edicodec.New(), nil
	case ".xlsx":
		return xlsxcodec.New(c.cfg.XLSXSheet), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, filepath.Base(path))
	}
}

// writerFor builds the writer for a normalized format name. Orders skipped
// by the EDI writer are recorded in result.
func (c *Converter) writerFor(format string, result *Result, log *zap.Logger) Writer {
	switch format {
	case FormatJSON:
		return jsoncodec.New(c.cfg.JSONIndent)
	case FormatEDI:
		return edicodec.New(
			edicodec.WithEnvelope(c.envelope()),
			edicodec.WithMissingFieldPolicy(c.policy),
			edicodec.WithSkipHandler(func(err *validation.FieldError) {
				result.Skipped = append(result.Skipped, err)
				log.Warn("Skipping order",
					zap.Int("order", err.Index),
					zap.String("field", err.Field),
					zap.Error(err.Unwrap()))
			}),
		)
	case FormatXLSX:
		return xlsxcodec.New(c.cfg.XLSXSheet)
	default:
		return txtcodec.New()
	}
}

// read opens the input file and decodes it. Text formats are passed through
// the configured character set decoder first.
func (c *Converter) read(path string, reader Reader) (order.Collection, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		src, err = utils.NewDecodingReader(f, c.cfg.InputEncoding)
		if err != nil {
			return nil, err
		}
	}

	orders, err := reader.Read(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return orders, nil
}

// envelope overlays the configured EDI identifiers on the default envelope.
func (c *Converter) envelope() edicodec.Envelope {
	e := edicodec.DefaultEnvelope()
	ec := c.cfg.EDI

	overrides := []struct {
		dst *string
		src string
	}{
		{&e.SenderQualifier, ec.SenderQualifier},
		{&e.SenderID, ec.SenderID},
		{&e.ReceiverQualifier, ec.ReceiverQualifier},
		{&e.ReceiverID, ec.ReceiverID},
		{&e.GroupDate, ec.GroupDate},
		{&e.GroupTime, ec.GroupTime},
		{&e.UsageIndicator, ec.UsageIndicator},
		{&e.ReleaseNumber, ec.ReleaseNumber},
	}
	for _, o := range overrides {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	start := ec.ControlStart
	if start <= 0 {
		start = 1
	}
	if strings.EqualFold(ec.ControlNumbers, config.ControlSequence) {
		e.ControlNumbers = edicodec.Sequence(start)
	} else {
		e.ControlNumbers = edicodec.Fixed(start)
	}
	return e
}

// outputName expands the configured name template.
func (c *Converter) outputName(format string, single bool) string {
	base := "output"
	if single {
		base = "output_single"
	}
	return utils.GenerateOutputFileName(c.cfg.OutputNameFormat, map[string]string{
		"base": base,
		"ext":  format,
	})
}

// isSingle reports whether the selection picks orders by index.
func isSingle(s filter.Selection) bool {
	switch s.(type) {
	case filter.IndexList, *filter.IndexList:
		return true
	}
	return false
}
