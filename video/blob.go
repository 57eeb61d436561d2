package video

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/tinylib/msgp/msgp"
)

// WindowBatch is the harvester's output unit (spec.md section 3): every
// record observed for one time window, proven consistent against a
// single snapshot version, ordered by start_time ascending.
type WindowBatch struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	LastModified time.Time
	Records      []Record

	// TotalCount is the server-reported full_count for this window at the
	// committed snapshot; PagesReceived is how many 100-record pages the
	// harvester actually fetched before the paging loop ended. The merger's
	// skip rule (spec.md section 4.2) compares ceil(TotalCount/100) against
	// PagesReceived to detect a server-side truncated window.
	TotalCount    int
	PagesReceived int
}

// IsSentinel reports whether b is the harvester->merger end-of-stream
// sentinel: empty records, epoch last_modified (spec.md section 5's
// "Channel shutdown" design note).
func (b WindowBatch) IsSentinel() bool {
	return len(b.Records) == 0 && b.LastModified.Equal(time.Unix(0, 0).UTC())
}

// SentinelBatch builds the end-of-stream marker the harvester sends to
// close the merger's channel.
func SentinelBatch() WindowBatch {
	return WindowBatch{LastModified: time.Unix(0, 0).UTC()}
}

// AggregatedBlob is the merger's output (spec.md section 3): a maximal
// run of windows sharing one snapshot version, immutable once written.
type AggregatedBlob struct {
	LastModified time.Time
	Records      []Record
}

// SortedRecord is one record plus the ranking key it was sorted under,
// carried in the binary so merge-rankings can k-way merge several
// SortedBlobs without knowing which scoring mode produced them (spec.md
// section 6's `merge-rankings <out.csv> <in.bin...>` takes no
// ranking-type argument; the original's RankingVideoDataBin carries the
// same precomputed `ranking_counter` field).
type SortedRecord struct {
	Record
	Key uint64
}

// SortedBlob is the Sorter/Filter stage's output (spec.md section 4.3):
// Records ordered descending by Key, LastModified carried over unchanged
// from the AggregatedBlob it was built from.
type SortedBlob struct {
	LastModified time.Time
	Records      []SortedRecord
}

func (b *SortedBlob) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteTime(b.LastModified); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(uint32(len(b.Records))); err != nil {
		return err
	}
	for i := range b.Records {
		if err := b.Records[i].Record.EncodeMsg(w); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		if err := w.WriteUint64(b.Records[i].Key); err != nil {
			return errors.Wrapf(err, "record %d key", i)
		}
	}
	return nil
}

func (b *SortedBlob) DecodeMsg(r *msgp.Reader) error {
	sz, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if sz != 2 {
		return errors.Errorf("sorted blob: expected 2-element array, got %d", sz)
	}
	if b.LastModified, err = r.ReadTime(); err != nil {
		return err
	}
	n, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	b.Records = make([]SortedRecord, n)
	for i := range b.Records {
		if err := b.Records[i].Record.DecodeMsg(r); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		if b.Records[i].Key, err = r.ReadUint64(); err != nil {
			return errors.Wrapf(err, "record %d key", i)
		}
	}
	return nil
}

// WriteSortedBlob writes a SortedBlob, the sort stage's output format.
func WriteSortedBlob(w io.Writer, b *SortedBlob) error {
	mw := msgp.NewWriterSize(w, 64*1024)
	if err := b.EncodeMsg(mw); err != nil {
		return errors.Wrap(err, "encoding sorted blob")
	}
	return mw.Flush()
}

// ReadSortedBlob decodes a SortedBlob previously written by WriteSortedBlob.
func ReadSortedBlob(r io.Reader) (*SortedBlob, error) {
	mr := msgp.NewReader(r)
	var b SortedBlob
	if err := b.DecodeMsg(mr); err != nil {
		return nil, errors.Wrap(err, "decoding sorted blob")
	}
	return &b, nil
}

// EncodeMsg writes b using tinylib/msgp's Writer primitives directly —
// a hand-written codec (no `go generate`) over the same runtime package
// aistore's dsort.go uses for its own record wire format. The layout is a
// 2-element array: [last_modified, records[]], which is deterministic and
// self-delimiting per spec.md section 6.
func (b *AggregatedBlob) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(2); err != nil {
		return err
	}
	if err := w.WriteTime(b.LastModified); err != nil {
		return err
	}
	if err := w.WriteArrayHeader(uint32(len(b.Records))); err != nil {
		return err
	}
	for i := range b.Records {
		if err := b.Records[i].EncodeMsg(w); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
	}
	return nil
}

func (b *AggregatedBlob) DecodeMsg(r *msgp.Reader) error {
	sz, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if sz != 2 {
		return errors.Errorf("aggregated blob: expected 2-element array, got %d", sz)
	}
	if b.LastModified, err = r.ReadTime(); err != nil {
		return err
	}
	n, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	b.Records = make([]Record, n)
	for i := range b.Records {
		if err := b.Records[i].DecodeMsg(r); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
	}
	return nil
}

// EncodeMsg writes one Record as a fixed-order array of its fields.
func (rec *Record) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(recordFieldCount); err != nil {
		return err
	}
	writers := []func() error{
		func() error { return w.WriteString(rec.ContentID) },
		func() error { return w.WriteString(rec.Title) },
		func() error { return w.WriteString(rec.Description) },
		func() error { return w.WriteString(rec.ThumbnailURL) },
		func() error { return w.WriteString(rec.LastResBody) },
		func() error { return w.WriteString(rec.CategoryTags) },
		func() error { return w.WriteString(rec.Genre) },
		func() error { return w.WriteUint32(rec.ViewCounter) },
		func() error { return w.WriteUint32(rec.MylistCounter) },
		func() error { return w.WriteUint32(rec.CommentCounter) },
		func() error { return w.WriteUint32(rec.LengthSeconds) },
		func() error { return w.WriteTime(rec.StartTime) },
		func() error { return writeOptTime(w, rec.LastCommentTime) },
		func() error { return writeStrings(w, rec.Tags) },
		func() error { return w.WriteTime(rec.LastModified) },
	}
	for _, wr := range writers {
		if err := wr(); err != nil {
			return err
		}
	}
	return nil
}

const recordFieldCount = 15

func (rec *Record) DecodeMsg(r *msgp.Reader) error {
	sz, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if sz != recordFieldCount {
		return errors.Errorf("record: expected %d-element array, got %d", recordFieldCount, sz)
	}
	if rec.ContentID, err = r.ReadString(); err != nil {
		return err
	}
	if rec.Title, err = r.ReadString(); err != nil {
		return err
	}
	if rec.Description, err = r.ReadString(); err != nil {
		return err
	}
	if rec.ThumbnailURL, err = r.ReadString(); err != nil {
		return err
	}
	if rec.LastResBody, err = r.ReadString(); err != nil {
		return err
	}
	if rec.CategoryTags, err = r.ReadString(); err != nil {
		return err
	}
	if rec.Genre, err = r.ReadString(); err != nil {
		return err
	}
	if rec.ViewCounter, err = r.ReadUint32(); err != nil {
		return err
	}
	if rec.MylistCounter, err = r.ReadUint32(); err != nil {
		return err
	}
	if rec.CommentCounter, err = r.ReadUint32(); err != nil {
		return err
	}
	if rec.LengthSeconds, err = r.ReadUint32(); err != nil {
		return err
	}
	if rec.StartTime, err = r.ReadTime(); err != nil {
		return err
	}
	if rec.LastCommentTime, err = readOptTime(r); err != nil {
		return err
	}
	if rec.Tags, err = readStrings(r); err != nil {
		return err
	}
	if rec.LastModified, err = r.ReadTime(); err != nil {
		return err
	}
	return nil
}

func writeOptTime(w *msgp.Writer, t *time.Time) error {
	if t == nil {
		return w.WriteBool(false)
	}
	if err := w.WriteBool(true); err != nil {
		return err
	}
	return w.WriteTime(*t)
}

func readOptTime(r *msgp.Reader) (*time.Time, error) {
	present, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	t, err := r.ReadTime()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeStrings(w *msgp.Writer, ss []string) error {
	if err := w.WriteArrayHeader(uint32(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func readStrings(r *msgp.Reader) ([]string, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WriteBlob writes an AggregatedBlob to w using a buffered msgp.Writer,
// matching aistore dsort.go's `msgp.NewWriterSize` + `EncodeMsg` + `Flush`
// pattern.
func WriteBlob(w io.Writer, b *AggregatedBlob) error {
	mw := msgp.NewWriterSize(w, 64*1024)
	if err := b.EncodeMsg(mw); err != nil {
		return errors.Wrap(err, "encoding blob")
	}
	return mw.Flush()
}

// ReadBlob decodes an AggregatedBlob previously written by WriteBlob.
func ReadBlob(r io.Reader) (*AggregatedBlob, error) {
	mr := msgp.NewReader(r)
	var b AggregatedBlob
	if err := b.DecodeMsg(mr); err != nil {
		return nil, errors.Wrap(err, "decoding blob")
	}
	return &b, nil
}
