package observe

import "github.com/vango-dev/keyed/pkg/keyed"

// multi fans callbacks out to several observers in order.
type multi []keyed.Observer

// Multi combines observers. Nil entries are ignored.
func Multi(observers ...keyed.Observer) keyed.Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (m multi) PassStarted(info keyed.PassInfo) {
	for _, o := range m {
		o.PassStarted(info)
	}
}

func (m multi) PassFinished(info keyed.PassInfo, stats keyed.PassStats) {
	for _, o := range m {
		o.PassFinished(info, stats)
	}
}
