/*
Package runtime implements an environment for semantic routines, consisting
of scopes and symbols (variable declarations and references).

Semantic routines of a grammar are called by a parser whenever a rule is
reduced. They compute a value from the values of the rule's children and
should not rely on shared global state. If a routine needs to remember
something beyond the value it returns, e.g. a variable assignment of a
calculator language, it does so through a runtime environment handed to
the parser.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Symbol Table and Scope Tree

This module implements data structures for scope trees and symbol tables
attached to them. Symbols of the runtime are called tags, to distinguish
them from the symbols of a grammar.


----------------------------------------------------------------------

BSD License

Copyright (c) 2017-22, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgo.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("lrgo.runtime")
}

// Runtime is an environment for semantic routines.
// It is not safe for concurrent use; every parser run working on a runtime
// should have the runtime for itself.
type Runtime struct {
	ScopeTree *ScopeTree  // collect scopes
	UData     interface{} // extension point
}

// NewRuntime constructs a new runtime environment with a global scope.
func NewRuntime() *Runtime {
	rt := &Runtime{ScopeTree: new(ScopeTree)}
	rt.ScopeTree.PushNewScope("globals")
	return rt
}

// Globals returns the global scope.
func (rt *Runtime) Globals() *Scope {
	return rt.ScopeTree.Globals()
}

// Set assigns a value to a variable in the current scope, defining the
// variable if necessary.
func (rt *Runtime) Set(name string, value interface{}) *Tag {
	tag, _ := rt.ScopeTree.Current().Tags().ResolveOrDefineTag(name)
	tag.Set(value)
	tracer().P("scope", rt.ScopeTree.Current().Name).Debugf("%s := %v", name, value)
	return tag
}

// Get looks up the value of a variable, searching the scope tree upwards
// from the current scope.
func (rt *Runtime) Get(name string) (interface{}, error) {
	tag, _ := rt.ScopeTree.Current().ResolveTag(name)
	if tag == nil {
		return nil, fmt.Errorf("undefined variable %q", name)
	}
	return tag.Value, nil
}
