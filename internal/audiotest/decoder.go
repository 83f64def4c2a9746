// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ik5/audtrim/audio"
)

// FakeDecoder implements audio.FileDecoder with canned results keyed by file
// name. Unknown names fail with audio.ErrUnsupportedFormat.
type FakeDecoder struct {
	mtx     sync.Mutex
	buffers map[string]*audio.Buffer
	errs    map[string]error
	gates   map[string]chan struct{}
	calls   int
}

func NewFakeDecoder() *FakeDecoder {
	return &FakeDecoder{
		buffers: make(map[string]*audio.Buffer),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

// Set makes name decode to a copy of buf.
func (d *FakeDecoder) Set(name string, buf *audio.Buffer) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.buffers[name] = buf
}

// Fail makes name fail with err.
func (d *FakeDecoder) Fail(name string, err error) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.errs[name] = err
}

// Hold blocks decodes of name until the returned func is called. The block
// ignores context cancellation so late completions can be observed.
func (d *FakeDecoder) Hold(name string) (release func()) {
	gate := make(chan struct{})

	d.mtx.Lock()
	d.gates[name] = gate
	d.mtx.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Calls returns the number of DecodeFile calls.
func (d *FakeDecoder) Calls() int {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	return d.calls
}

func (d *FakeDecoder) DecodeFile(ctx context.Context, f audio.File) (*audio.Buffer, error) {
	d.mtx.Lock()
	d.calls++
	gate := d.gates[f.Name]
	d.mtx.Unlock()

	if gate != nil {
		<-gate
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	if err, ok := d.errs[f.Name]; ok {
		return nil, err
	}
	buf, ok := d.buffers[f.Name]
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %q", audio.ErrUnsupportedFormat, f.Name)
	case buf == nil:
		return nil, nil
	}
	return buf.Clone(), nil
}
