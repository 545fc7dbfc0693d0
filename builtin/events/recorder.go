// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

// Recorder buffers records of the running operation.
// It is not safe for concurrent use.
type Recorder struct {
	records []*Record
}

var _ Emitter = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(rec *Record) {
	r.records = append(r.records, rec)
}

// Records returns the buffered records.
func (r *Recorder) Records() []*Record {
	return r.records
}

// Len returns the count of buffered records, usable as a checkpoint.
func (r *Recorder) Len() int {
	return len(r.records)
}

// RevertTo drops records emitted after the checkpoint.
func (r *Recorder) RevertTo(checkpoint int) {
	if checkpoint < len(r.records) {
		r.records = r.records[:checkpoint]
	}
}
