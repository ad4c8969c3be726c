package dataflow

import (
	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/order"
	"github.com/arrowstream/dbsp/pkg/trace"
)

// Join is bilinear, not linear: a change on one side must be matched
// against the *entire* history of the other side, not just its own most
// recent delta, to produce a correct incremental result. The operator
// keeps a full Index of everything each side has ever sent, and on each
// step joins the new delta from one side against the accumulated index of
// the other, then folds the delta into its own side's index for next
// time. Joining delta-against-delta would double count; joining
// delta-against-index-taken-before-this-delta-was-folded-in is what keeps
// each change counted exactly once.
func Join[K, V1, V2 comparable](a Stream[collection.Pair[K, V1]], b Stream[collection.Pair[K, V2]]) Stream[collection.Pair[K, collection.Pair[V1, V2]]] {
	if a.g != b.g {
		panic(&StructuralError{Msg: "join: streams belong to different graphs"})
	}
	type result = collection.Pair[K, collection.Pair[V1, V2]]

	out := newStream[result](a.g)
	ea := a.connect()
	eb := b.connect()
	op := newBinaryOperator("join", ea, eb, a.g.frontier(), a.g.log)

	indexA := trace.NewIndex[K, V1]()
	indexB := trace.NewIndex[K, V2]()

	op.run = func() {
		deltaA := trace.NewIndex[K, V1]()
		deltaB := trace.NewIndex[K, V2]()

		for _, m := range ea.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[collection.Pair[K, V1]])
				for _, e := range c.Entries() {
					deltaA.AddValue(e.Record.Key, m.version, e.Record.Value, e.Multiplicity)
				}
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
			}
		}
		for _, m := range eb.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[collection.Pair[K, V2]])
				for _, e := range c.Entries() {
					deltaB.AddValue(e.Record.Key, m.version, e.Record.Value, e.Multiplicity)
				}
			case frontierMessage:
				op.setInputFrontier(1, m.frontier)
			}
		}

		resultsByVersion := map[string]*collection.Collection[result]{}
		versionByKey := map[string]order.Version{}
		accumulate := func(matches []struct {
			Pair         trace.JoinedPair[K, V1, V2]
			Multiplicity int
		}) {
			for _, match := range matches {
				key := match.Pair.Version.Key()
				if _, ok := resultsByVersion[key]; !ok {
					resultsByVersion[key] = collection.Empty[result]()
					versionByKey[key] = match.Pair.Version
				}
				entry := collection.Entry[result]{
					Record: result{
						Key:   match.Pair.Key,
						Value: collection.Pair[V1, V2]{Key: match.Pair.Value1, Value: match.Pair.Value2},
					},
					Multiplicity: match.Multiplicity,
				}
				resultsByVersion[key] = resultsByVersion[key].Concat(collection.New(entry))
			}
		}

		accumulate(trace.Join[K, V1, V2](deltaA, indexB))
		indexA.Append(deltaA)
		accumulate(trace.Join[K, V1, V2](indexA, deltaB))

		for key, c := range resultsByVersion {
			out.w.sendData(versionByKey[key], c)
		}
		indexB.Append(deltaB)

		inputFrontier := op.meetInputFrontiers()
		if op.advanceOutputFrontier(inputFrontier, out.w) {
			indexA.Compact(inputFrontier)
			indexB.Compact(inputFrontier)
		}
	}

	a.g.addOperator(op)
	return out
}
