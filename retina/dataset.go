package retina

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidDataset is wrapped by every dataset shape or label error.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset holds labelled stimuli: one row of MaxCells values per example and
// a binary label (0 or 1) per row.
type Dataset struct {
	Train       *mat.Dense
	TrainLabels []int
	Test        *mat.Dense
	TestLabels  []int
}

// NewDataset builds a Dataset from flattened row-major stimulus arrays.
func NewDataset(width int, train []float64, trainLabels []int, test []float64, testLabels []int) (*Dataset, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width must be positive", ErrInvalidDataset)
	}
	if len(train) != width*len(trainLabels) {
		return nil, fmt.Errorf("%w: %d training values for %d labels of width %d", ErrInvalidDataset, len(train), len(trainLabels), width)
	}
	if len(test) != width*len(testLabels) {
		return nil, fmt.Errorf("%w: %d test values for %d labels of width %d", ErrInvalidDataset, len(test), len(testLabels), width)
	}
	if len(trainLabels) == 0 || len(testLabels) == 0 {
		return nil, fmt.Errorf("%w: training and test sets must both be non-empty", ErrInvalidDataset)
	}
	return &Dataset{
		Train:       mat.NewDense(len(trainLabels), width, train),
		TrainLabels: trainLabels,
		Test:        mat.NewDense(len(testLabels), width, test),
		TestLabels:  testLabels,
	}, nil
}

// TrainSize is the number of training examples.
func (d *Dataset) TrainSize() int { return len(d.TrainLabels) }

// TestSize is the number of test examples.
func (d *Dataset) TestSize() int { return len(d.TestLabels) }

// TrainStimulus returns training example i without copying.
func (d *Dataset) TrainStimulus(i int) []float64 { return d.Train.RawRowView(i) }

// TestStimulus returns test example i without copying.
func (d *Dataset) TestStimulus(i int) []float64 { return d.Test.RawRowView(i) }

// Validate checks that the stimuli are MaxCells wide and the labels binary.
func (d *Dataset) Validate(config *RetinaConfig) error {
	check := func(name string, m *mat.Dense, labels []int) error {
		if m == nil {
			return fmt.Errorf("%w: %s stimuli missing", ErrInvalidDataset, name)
		}
		rows, cols := m.Dims()
		if rows != len(labels) {
			return fmt.Errorf("%w: %s has %d stimuli and %d labels", ErrInvalidDataset, name, rows, len(labels))
		}
		if cols != config.MaxCells {
			return fmt.Errorf("%w: %s stimuli are %d wide, want %d", ErrInvalidDataset, name, cols, config.MaxCells)
		}
		for i, l := range labels {
			if l != 0 && l != 1 {
				return fmt.Errorf("%w: %s label %d is %d, want 0 or 1", ErrInvalidDataset, name, i, l)
			}
		}
		return nil
	}
	if err := check("train", d.Train, d.TrainLabels); err != nil {
		return err
	}
	return check("test", d.Test, d.TestLabels)
}

// LoadDataset reads a dataset from a text file. Every non-blank line that
// does not start with '#' is "<split> <label> <v1> ... <vN>" where split is
// "train" or "test".
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset '%s': %w", path, err)
	}
	defer f.Close()

	d, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("dataset '%s': %w", path, err)
	}
	return d, nil
}

// ReadDataset parses the LoadDataset text format from r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	var (
		width             = -1
		train, test       []float64
		trainLbl, testLbl []int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: want split, label and values", ErrInvalidDataset, line)
		}
		if width == -1 {
			width = len(fields) - 2
		} else if len(fields)-2 != width {
			return nil, fmt.Errorf("%w: line %d: %d values, want %d", ErrInvalidDataset, line, len(fields)-2, width)
		}

		label, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: label: %v", ErrInvalidDataset, line, err)
		}
		values := make([]float64, width)
		for k, s := range fields[2:] {
			if values[k], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: value %d: %v", ErrInvalidDataset, line, k, err)
			}
		}

		switch fields[0] {
		case "train":
			train = append(train, values...)
			trainLbl = append(trainLbl, label)
		case "test":
			test = append(test, values...)
			testLbl = append(testLbl, label)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown split %q", ErrInvalidDataset, line, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewDataset(width, train, trainLbl, test, testLbl)
}

// WriteDataset writes d in the LoadDataset text format.
func WriteDataset(w io.Writer, d *Dataset) error {
	bw := bufio.NewWriter(w)
	write := func(split string, m *mat.Dense, labels []int) {
		for i, l := range labels {
			fmt.Fprintf(bw, "%s %d", split, l)
			for _, v := range m.RawRowView(i) {
				bw.WriteByte(' ')
				bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
			bw.WriteByte('\n')
		}
	}
	write("train", d.Train, d.TrainLabels)
	write("test", d.Test, d.TestLabels)
	return bw.Flush()
}
