package dataflow

import (
	"sort"

	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/order"
)

// Consolidate buffers every batch it receives per version and only emits a
// version's accumulated collection, fully summed, once the input frontier
// has advanced past it, so downstream operators see at most one batch per
// version from it.
func Consolidate[T comparable](in Stream[T]) Stream[T] {
	out := newStream[T](in.g)
	e := in.connect()
	op := newUnaryOperator("consolidate", e, in.g.frontier(), in.g.log)

	pending := map[string]order.Version{}
	acc := map[string]*collection.Collection[T]{}

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				key := m.version.Key()
				if cur, ok := acc[key]; ok {
					acc[key] = cur.Concat(c)
				} else {
					acc[key] = c
					pending[key] = m.version
				}
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
			}
		}

		inputFrontier := op.inputFrontiers[0]
		var finished []string
		for key, v := range pending {
			if !inputFrontier.LessEqualVersion(v) {
				finished = append(finished, key)
			}
		}
		sort.Strings(finished)
		for _, key := range finished {
			v := pending[key]
			c := acc[key]
			delete(pending, key)
			delete(acc, key)
			out.w.sendData(v, c)
		}

		op.advanceOutputFrontier(inputFrontier, out.w)
	}

	in.g.addOperator(op)
	return out
}
