// Package virjson reads a krate of typed surface functions from JSON.
//
// A krate file looks like:
//
//	{
//	  "files": ["src/lib.rs"],
//	  "functions": [
//	    {"name": "inc", "mode": "exec",
//	     "params": [{"name": "x", "typ": "u8"}],
//	     "ret": {"name": "result", "typ": "u8"},
//	     "body": {"kind": "binary", "op": "add", "mode": "exec", "typ": "u8",
//	              "left": {"kind": "var", "name": "x", "typ": "u8"},
//	              "right": {"kind": "const", "nat": "1", "typ": "u8"}}}
//	  ]
//	}
//
// Types are either a shorthand string (bool, int, nat, u8, i32, usize,
// type_id, "()" or a datatype name) or an object with a "kind" field.
// Spans are {"file": i, "start": a, "end": b}, where file indexes "files".
// Identifiers are normalised to Unicode NFC.
package virjson
