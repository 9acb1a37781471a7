package export

import (
	"encoding/binary"
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
)

// Trace files are the JSON document, snappy-compressed, behind a fixed
// header: 4 bytes magic, 1 version byte, and an xxhash64 of the
// compressed payload in little-endian.
const (
	traceMagic     = "AVTR"
	traceVersion   = 1
	traceHeaderLen = 4 + 1 + 8
)

// ErrBadTrace marks trace data that fails structural or checksum
// validation.
var ErrBadTrace = errors.New("algoviz/export: invalid trace file")

// Trace is the decoded content of a trace file: the baseline dataset
// plus the step sequence needed to replay the run on top of it.
type Trace struct {
	Visualizer string
	Kind       draw.Kind
	Baseline   *graph.Dataset
	Steps      []step.Step
}

// EncodeTrace serializes a trace into the compressed container format.
func EncodeTrace(t Trace) ([]byte, error) {
	if t.Baseline == nil {
		return nil, errors.New("algoviz/export: trace needs a baseline dataset")
	}
	doc := documentJSON{
		Visualizer: t.Visualizer,
		Kind:       t.Kind,
		Nodes:      nodesJSON(t.Baseline),
		Edges:      edgesJSON(t.Baseline),
		Steps:      t.Steps,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "algoviz/export: encode trace")
	}
	compressed := snappy.Encode(nil, payload)

	out := make([]byte, traceHeaderLen+len(compressed))
	copy(out, traceMagic)
	out[4] = traceVersion
	binary.LittleEndian.PutUint64(out[5:traceHeaderLen], xxhash.Sum64(compressed))
	copy(out[traceHeaderLen:], compressed)
	return out, nil
}

// DecodeTrace validates and unpacks trace data. Any header, checksum,
// or payload defect comes back marked with ErrBadTrace.
func DecodeTrace(data []byte) (Trace, error) {
	if len(data) < traceHeaderLen {
		return Trace{}, errors.Wrap(ErrBadTrace, "truncated header")
	}
	if string(data[:4]) != traceMagic {
		return Trace{}, errors.Wrap(ErrBadTrace, "bad magic")
	}
	if data[4] != traceVersion {
		return Trace{}, errors.Wrapf(ErrBadTrace, "unsupported version %d", data[4])
	}
	compressed := data[traceHeaderLen:]
	if xxhash.Sum64(compressed) != binary.LittleEndian.Uint64(data[5:traceHeaderLen]) {
		return Trace{}, errors.Wrap(ErrBadTrace, "checksum mismatch")
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return Trace{}, errors.Mark(errors.Wrap(err, "algoviz/export: decompress trace"), ErrBadTrace)
	}
	var doc documentJSON
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Trace{}, errors.Mark(errors.Wrap(err, "algoviz/export: decode trace"), ErrBadTrace)
	}
	ds, err := datasetFromJSON(doc.Nodes, doc.Edges)
	if err != nil {
		return Trace{}, errors.Mark(err, ErrBadTrace)
	}
	return Trace{Visualizer: doc.Visualizer, Kind: doc.Kind, Baseline: ds, Steps: doc.Steps}, nil
}

// traceExporter writes the replayable session container. Decoded files
// feed LoadSteps to resume navigation exactly where the trace left off.
type traceExporter struct{}

func (traceExporter) Info() plugin.Info {
	return plugin.Info{Name: "trace", Version: exporterVersion, Kinds: draw.Kinds()}
}

func (traceExporter) Formats() []string { return []string{"trace", "avt"} }

func (traceExporter) Export(h plugin.Host, _ plugin.ExportConfig) (plugin.Blob, error) {
	t := Trace{Visualizer: h.ID(), Kind: h.Kind(), Baseline: datasetOf(h)}
	if tc, ok := h.(traceCarrier); ok {
		t.Steps = tc.Steps()
		if len(t.Steps) > 0 {
			bl, err := tc.Baseline()
			if err != nil {
				return plugin.Blob{}, errors.Wrap(err, "algoviz/export: rebuild baseline")
			}
			t.Baseline = bl
		}
	}
	data, err := EncodeTrace(t)
	if err != nil {
		return plugin.Blob{}, err
	}
	return plugin.Blob{Format: "trace", Data: data}, nil
}
