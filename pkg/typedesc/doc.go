// Package typedesc models the type information the bridge needs from the
// editor's type system.
//
// Types arrive as plain descriptor documents produced by the editor plugin.
// Nothing in this package inspects live code: a TypeRef names a type as it
// appears at a use site (with generic arguments), and a ClassDef describes
// a declaration (type parameters, superclass, fields, enum constants). A
// Resolver maps qualified names to declarations.
//
// # Descriptor documents
//
// A document is JSON:
//
//	{
//	  "classes": [
//	    {
//	      "name": "com.example.Page",
//	      "typeParams": ["T"],
//	      "fields": [
//	        {"name": "items", "type": "java.util.List<T>"},
//	        {"name": "total", "type": "long"}
//	      ]
//	    }
//	  ],
//	  "clients": [
//	    {
//	      "name": "com.example.UserClient",
//	      "methods": [
//	        {"name": "list", "params": ["int"], "returns": "com.example.Page<com.example.User>"}
//	      ]
//	    }
//	  ]
//	}
//
// Type references may be written as strings (parsed with ParseTypeRef) or as
// objects with explicit kind, name, args and component.
//
// # Type text
//
// ParseTypeRef accepts the canonical text form used throughout the editor:
// qualified names, generic arguments in angle brackets, trailing [] for
// arrays, and wildcards (? extends X is read as X, a bare ? as
// java.lang.Object). A name without a package qualifier that is not a
// primitive keyword is read as a type variable.
package typedesc
