// Package validation validates configuration values.
//
// Struct validation uses go-playground/validator tags; failures come back as
// an INVALID_CONFIG AppError whose "fields" detail lists each offending
// field by its mapstructure name:
//
//	if err := validation.Validate(cfg); err != nil {
//	    return err
//	}
//
// The chainable Validator covers checks that tags cannot express:
//
//	return validation.Section("redis").
//	    Required("addr", c.Addr).
//	    HostPort("addr", c.Addr).
//	    Duration("ttl", c.TTL).
//	    Err()
package validation
