package da

// Option customises an oracle at construction.
type Option func(*options)

type options struct {
	padder Padder
}

// WithPadder replaces the default random padder.
func WithPadder(p Padder) Option {
	return func(o *options) {
		if p != nil {
			o.padder = p
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{padder: DefaultPadder()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// pad applies p only when extra bytes are expected.
func pad(p Padder, data []byte, n uint) []byte {
	if n == 0 {
		return data
	}
	return p.Pad(data, n)
}
