/*
Package value implements the untyped configuration tree used while layers
are gathered and merged.

# Overview

A Value is a tagged union over null, boolean, number, string, sequence and
mapping. Providers produce Values from their sources, the resolver folds
them with Merge, and the decoder turns the result into a typed struct.

	defaults := value.MustFromAny(map[string]any{
	    "db": map[string]any{"host": "x", "port": 5432},
	})
	override := value.MustFromAny(map[string]any{
	    "db": map[string]any{"port": 5433},
	})

	merged := value.Merge(defaults, override)
	// db.host = "x", db.port = 5433

# Merge Rules

Mappings merge key by key; everything else, sequences included, is replaced
wholesale by the overlay. Sequences are atomic so that a list is always
exactly what one source wrote.

# Provenance

Values remember which provider supplied them (see WithSource). Merge keeps
the source of whichever side survives, so the decoder can name the provider
responsible for a bad value.

# Thread Safety

Values are immutable; every operation returns a new Value. They are safe
to share between goroutines.
*/
package value
