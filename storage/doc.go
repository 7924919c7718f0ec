// Package storage persists dump files behind a small pluggable interface.
//
// # Backends
//
//   - storage/local: the local filesystem (default)
//   - storage/s3: Amazon S3 and S3-compatible services, for sharing dumps
//     between CI runners
//   - storage/redis: a Redis keyspace
//
// Importing a backend package registers its factory, after which New
// selects it by provider name:
//
//	storage:
//	  provider: "s3"
//	  s3:
//	    bucket: "fixtures"
//	    prefix: "dumps/"
package storage
