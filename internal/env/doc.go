// Package env activates the application's prepared runtime environment
// and validates that everything the server needs is in place.
//
// Activation does not create or install anything: the virtualenv is a
// precondition. Activating means verifying it exists, loading the optional
// dotenv file, and building the child environment (VIRTUAL_ENV set, the
// venv's binary directory prepended to PATH) the server will run under.
package env
