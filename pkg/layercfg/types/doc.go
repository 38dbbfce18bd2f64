// Package types provides configuration field types that validate while
// decoding.
//
// Each type implements encoding.TextUnmarshaler or schema.Unmarshaler, so
// a resolution reports a bad value as a type mismatch at the field's path:
//
//	type Config struct {
//	    API      types.BaseURL         `config:"api"`
//	    LogLevel types.LevelFilter     `config:"log_level" default:"info"`
//	    Timeout  types.Seconds         `default:"30"`
//	    Name     types.NonEmptyString
//	}
package types
