package lw

import (
	"github.com/marco-hrlic/go-smc/smooth"
	log "github.com/sirupsen/logrus"
)

type options struct {
	h      float64
	reg    smooth.Regularizer
	logger log.FieldLogger
}

// Option configures the Liu-West filter
type Option func(*options)

// WithKernelScale sets the kernel scale factor h.
// h must be strictly between 0 and 1. Default is smooth.DefaultScale.
func WithKernelScale(h float64) Option {
	return func(o *options) {
		o.h = h
	}
}

// WithRegularizer sets the regularizer applied to a degenerate parameter cloud.
// Without a regularizer Update returns *filter.CloudError on a degenerate cloud.
func WithRegularizer(r smooth.Regularizer) Option {
	return func(o *options) {
		o.reg = r
	}
}

// WithLogger sets the filter logger.
// If nil is passed the logrus standard logger is used.
func WithLogger(l log.FieldLogger) Option {
	return func(o *options) {
		if l == nil {
			l = log.StandardLogger()
		}
		o.logger = l
	}
}

func defaultOptions() *options {
	return &options{
		h:      smooth.DefaultScale,
		logger: log.StandardLogger(),
	}
}
