package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"colhist/pkg/histogram"
	"colhist/pkg/logging"
	"colhist/pkg/predicate"
	"colhist/pkg/segment"
	"colhist/pkg/value"
)

type Configuration struct {
	ElementType  string
	Layout       string
	BinCount     int
	Values       string
	Alphabet     string
	PrefixLength int
	Predicate    string
	Value        string
	Value2       string
	LogLevel     string
}

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B5CF6")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2)

	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34D399")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#EF4444")).
			Foreground(lipgloss.Color("#F8FAFC")).
			Bold(true).
			Padding(0, 1)
)

func main() {
	config := parseArguments()

	if err := logging.Init(logging.Config{Level: logging.LogLevel(config.LogLevel)}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	fmt.Println(titleStyle.Render("histprobe"))

	if err := run(config); err != nil {
		logging.WithError(err).Error("probe failed")
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// parseArguments processes command-line flags
func parseArguments() Configuration {
	var config Configuration

	flag.StringVar(&config.ElementType, "type", "int64", "Element type: int32, int64, float32, float64, string")
	flag.StringVar(&config.Layout, "layout", "equal-height", "Bin layout: equal-distinct-count, equal-width, equal-height")
	flag.IntVar(&config.BinCount, "bins", 10, "Number of bins")
	flag.StringVar(&config.Values, "values", "", "Comma-separated segment values (empty entries are nulls)")
	flag.StringVar(&config.Alphabet, "alphabet", value.DefaultAlphabet, "Supported characters for string histograms")
	flag.IntVar(&config.PrefixLength, "prefix-length", 0, "String prefix length (0 picks the largest valid)")
	flag.StringVar(&config.Predicate, "pred", "", "Predicate to probe: eq, ne, lt, lte, gt, gte, between, like, notlike")
	flag.StringVar(&config.Value, "value", "", "Search value")
	flag.StringVar(&config.Value2, "value2", "", "Second search value (between)")
	flag.StringVar(&config.LogLevel, "log-level", "INFO", "Log level: DEBUG, INFO, WARN, ERROR")

	flag.Parse()

	return config
}

func run(config Configuration) error {
	layout, err := parseLayout(config.Layout)
	if err != nil {
		return err
	}

	switch config.ElementType {
	case "int32":
		return probe[int32](config, value.Int32Codec{}, layout)
	case "int64":
		return probe[int64](config, value.Int64Codec{}, layout)
	case "float32":
		return probe[float32](config, value.Float32Codec{}, layout)
	case "float64":
		return probe[float64](config, value.Float64Codec{}, layout)
	case "string":
		prefixLength := config.PrefixLength
		if prefixLength == 0 {
			prefixLength = value.MaxPrefixLength(len(config.Alphabet))
		}
		codec, err := value.NewStringCodec(config.Alphabet, prefixLength)
		if err != nil {
			return err
		}
		return probe[string](config, codec, layout)
	default:
		return fmt.Errorf("unknown element type %q", config.ElementType)
	}
}

// probe builds the histogram from the -values flag and optionally runs a
// predicate estimate against it.
func probe[T comparable](config Configuration, codec value.Codec[T], layout histogram.Layout) error {
	seg, err := parseSegment(config.Values, codec)
	if err != nil {
		return err
	}

	hist, err := histogram.FromSegment[T](seg, codec, layout, config.BinCount)
	if err != nil {
		return err
	}

	fmt.Println(reportStyle.Render(strings.TrimRight(hist.Description(), "\n")))

	if config.Predicate == "" {
		return nil
	}

	pred, err := parsePredicate(config.Predicate)
	if err != nil {
		return err
	}

	v, err := value.ParseVariant(codec.Type(), config.Value)
	if err != nil {
		return err
	}
	var v2 *value.Variant
	if pred.NeedsSecondValue() {
		parsed, err := value.ParseVariant(codec.Type(), config.Value2)
		if err != nil {
			return err
		}
		v2 = &parsed
	}

	pruned, err := hist.DoesNotContainVariant(pred, v, v2)
	if err != nil {
		return err
	}
	card, certain, err := hist.EstimateCardinalityVariant(pred, v, v2)
	if err != nil {
		return err
	}
	sel, _, err := hist.EstimateSelectivityVariant(pred, v, v2)
	if err != nil {
		return err
	}

	fmt.Println(resultStyle.Render(fmt.Sprintf(
		"%s %s: pruned=%v cardinality=%.2f selectivity=%.4f certain=%v",
		pred, config.Value, pruned, card, sel, certain)))
	return nil
}

// parseSegment splits the -values flag into a slice segment. Empty entries
// stand in for nulls so null skipping is visible from the CLI.
func parseSegment[T comparable](values string, codec value.Codec[T]) (segment.Segment[T], error) {
	if values == "" {
		return nil, fmt.Errorf("no segment values given; pass -values")
	}

	parts := strings.Split(values, ",")
	data := make([]segment.Optional[T], 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			data = append(data, segment.Null[T]())
			continue
		}
		variant, err := value.ParseVariant(codec.Type(), part)
		if err != nil {
			return nil, err
		}
		v, err := codec.FromVariant(variant)
		if err != nil {
			return nil, err
		}
		data = append(data, segment.Some(v))
	}
	return segment.NewSliceSegmentWithNulls(data), nil
}

func parseLayout(name string) (histogram.Layout, error) {
	switch name {
	case "equal-distinct-count":
		return histogram.EqualDistinctCount, nil
	case "equal-width":
		return histogram.EqualWidth, nil
	case "equal-height":
		return histogram.EqualHeight, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", name)
	}
}

func parsePredicate(name string) (predicate.Predicate, error) {
	switch name {
	case "eq":
		return predicate.Equals, nil
	case "ne":
		return predicate.NotEquals, nil
	case "lt":
		return predicate.LessThan, nil
	case "lte":
		return predicate.LessThanEquals, nil
	case "gt":
		return predicate.GreaterThan, nil
	case "gte":
		return predicate.GreaterThanEquals, nil
	case "between":
		return predicate.Between, nil
	case "like":
		return predicate.Like, nil
	case "notlike":
		return predicate.NotLike, nil
	default:
		return 0, fmt.Errorf("unknown predicate %q", name)
	}
}
