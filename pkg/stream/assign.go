package stream

import "weak"

// AssignWeak writes every value into obj through set, holding obj only
// weakly. Once obj is garbage collected further values are ignored; the
// subscription itself lives until the returned handle is cancelled or the
// stream completes.
//
//	stream.AssignWeak(viewModel.Title, label, (*Label).SetText)
func AssignWeak[T, R any](p Publisher[T], obj *R, set func(*R, T)) Cancellable {
	ref := weak.Make(obj)
	return Sink(p, func(v T) {
		if target := ref.Value(); target != nil {
			set(target, v)
		}
	}, nil)
}
