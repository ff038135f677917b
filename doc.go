/*
Package scopus is a lexer- and parser-generator toolbox.

Clients describe tokens as regular expressions and a language as a context-free
grammar. Scopus compiles the token definitions into a table-driven finite
state tokenizer and the grammar into SLR(1) parser tables, then drives a
shift-reduce parser over the token stream, calling semantic actions on every
reduction. Package structure is as follows:

■ scanner: Package scanner compiles regular expressions into a deterministic
transition table and tokenizes byte streams with longest-match semantics.
Sub-packages hold the automata (scanner/automata), the regular expression
syntax (scanner/rx) and an adapter for lexmachine (scanner/lexmach).

■ lr: Package lr holds the grammar model and generates SLR(1) ACTION and GOTO
tables. Sub-package lr/slr implements the parser driver.

■ runtime: Package runtime provides a simple symbol table for interpreters.

The base package contains data types which are used throughout all the other packages.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package scopus
