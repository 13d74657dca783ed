package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/aprayoga/storefront/internal/common"
)

var Tracer = otel.Tracer(common.ScopeCart)
