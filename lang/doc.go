// Package lang compiles VeaScript, a small markup language for chat
// messages, into a [Document] holding text content and validated embeds.
//
// # Grammar
//
// Informal EBNF:
//
//	Script     → Block* EOF
//	Block      → Text | Math | Random | Embed
//	Text       → '#text' '{' <chars, escapes> '}'
//	Math       → '#math' '{' Sum '}'
//	Random     → '#random' '{' (String (',' String)*)? '}'
//	Embed      → '#embed' '{' EmbedItem* '}'
//	EmbedItem  → Leaf | Author | Footer | Fields
//	Author     → '#author' '{' Leaf* '}'
//	Footer     → '#footer' '{' Leaf* '}'
//	Fields     → '#fields' '{' Field* '}'
//	Field      → '#field' '{' Leaf* '}'
//	Leaf       → '#' Name ':' Value ','
//
//	Sum        → Product (('+' | '-') Product)*
//	Product    → Unary (('*' | '/') Unary)*
//	Unary      → '-'* Atom
//	Atom       → Digits | '(' Sum ')'
//
// Whitespace is insignificant between tokens. A string literal is
// delimited by '"' and holds any characters except '"' and '\'; it has no
// escape sequences. A #text body is taken verbatim up to the closing '}'
// and recognizes the escapes \\ \/ \" \b \f \n \r \t and \uXXXX. A \u
// escape that does not name a Unicode scalar value decodes to U+FFFD and
// records a [Diagnostic].
//
// Leaf values are string literals, except #colour (hexadecimal with a "#"
// or "0x" prefix, or decimal), #timestamp (decimal Unix seconds), and
// #inline (true or false).
//
// # Example
//
//	#text {Result: }#math {2 + 3 * 4}
//	#embed {
//		#title: "Hi",
//		#colour: #FF0000,
//		#fields {
//			#field { #name: "a", #value: "b", #inline: true, }
//		}
//	}
//
// # Evaluation
//
// [Compile] parses a script and evaluates its blocks left to right. Text
// is appended to [Document.Content] as is, math is folded with IEEE-754
// semantics and appended in shortest decimal form, and #random appends one
// of its options chosen uniformly. Each #embed is folded by [BuildEmbed]
// into an [Embed], enforcing the limits declared in this package.
//
// Errors are either a *[ParseError] (errors.Is [ErrParse]) or a
// *[BuildError] (errors.Is [ErrBuild]). Either one stops compilation and
// no partial document is returned.
package lang
