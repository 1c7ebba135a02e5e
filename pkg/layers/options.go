package layers

import "net/url"

// Options is the ephemeral configuration bag passed through one request
// chain and attached to the notifications it emits. It is not persisted.
type Options struct {
	// URL is injected by Container.Request before the fetch is issued.
	URL string

	// Method is the transport method. Empty implies GET.
	Method string

	// Position controls where a brand-new layer is inserted relative to the
	// container's current layer: PositionPrevious inserts before, anything
	// else after.
	Position string

	// Form carries submitted form values for the fetch.
	Form url.Values

	// Title is the history entry title, when the activation leads to a
	// history push.
	Title string
}

// clone copies the options, including the form values, so mutation of the
// merged request options never leaks back into the caller's bag.
func (o Options) clone() Options {
	out := o
	if o.Form != nil {
		out.Form = make(url.Values, len(o.Form))
		for k, vs := range o.Form {
			out.Form[k] = append([]string(nil), vs...)
		}
	}
	return out
}
