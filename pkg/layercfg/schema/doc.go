// Package schema describes the typed configuration a tree decodes into.
//
// A Schema lists fields with their key, expected type, default and flags.
// It is derived once from a struct type through tags:
//
//	type Config struct {
//	    Server struct {
//	        Host string `default:"localhost"`
//	        Port int    `default:"8080"`
//	    }
//	    APIKey  string        `config:"api_key" secret:"true"`
//	    Timeout time.Duration `optional:"true"`
//	    Ignored string        `config:"-"`
//	}
//
//	sch, err := schema.Of[Config]()
//
// Field names default to snake_case. Fields with a default, pointer fields
// and fields tagged optional may be absent; every other field is required.
package schema
