package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan creates a new span for a service operation.
//
// Usage in services:
//
//	ctx, span := telemetry.StartSpan(ctx, "cr8sapi/services/iam", "iam.Login",
//	    attribute.String(telemetry.AttrUsername, username),
//	)
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// RecordError records an error on the span and sets the span status to error.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a named event to the span with optional attributes.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Common span attribute keys
const (
	// IAM service attributes
	AttrUserID       = "user.id"
	AttrUsername     = "user.name"
	AttrRoleCodes    = "user.roles"
	AttrAllowedRoles = "authz.allowed_roles"
	AttrAuthzAllowed = "authz.allowed"

	// Provisioning attributes
	AttrRolesCreated = "provision.roles_created"
	AttrRowsDeleted  = "provision.rows_deleted"
)
