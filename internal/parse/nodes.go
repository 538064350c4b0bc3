package parse

// Tree-sitter node types of the markdown block and inline grammars.
//
// Reference: https://github.com/tree-sitter-grammars/tree-sitter-markdown
const (
	// Block grammar.
	tsDocument          = "document"
	tsSection           = "section"
	tsAtxHeading        = "atx_heading"
	tsSetextHeading     = "setext_heading"
	tsSetextH1          = "setext_h1_underline"
	tsSetextH2          = "setext_h2_underline"
	tsInline            = "inline"
	tsParagraph         = "paragraph"
	tsFencedCodeBlock   = "fenced_code_block"
	tsInfoString        = "info_string"
	tsLanguage          = "language"
	tsCodeFenceContent  = "code_fence_content"
	tsIndentedCodeBlock = "indented_code_block"
	tsList              = "list"
	tsListItem          = "list_item"
	tsBlockQuote        = "block_quote"
	tsThematicBreak     = "thematic_break"
	tsHTMLBlock         = "html_block"
	tsLinkRefDef        = "link_reference_definition"
	tsLinkLabel         = "link_label"
	tsLinkDestination   = "link_destination"
	tsTable             = "pipe_table"
	tsTableHeader       = "pipe_table_header"
	tsTableRow          = "pipe_table_row"
	tsTableCell         = "pipe_table_cell"
	tsMinusMetadata     = "minus_metadata"
	tsPlusMetadata      = "plus_metadata"
	tsError             = "ERROR"

	// Inline grammar.
	tsEmphasis          = "emphasis"
	tsStrong            = "strong_emphasis"
	tsStrikethrough     = "strikethrough"
	tsEmphasisDelimiter = "emphasis_delimiter"
	tsCodeSpan          = "code_span"
	tsCodeSpanDelimiter = "code_span_delimiter"
	tsInlineLink        = "inline_link"
	tsLinkText          = "link_text"
	tsImage             = "image"
	tsImageDescription  = "image_description"
	tsHardLineBreak     = "hard_line_break"
	tsBackslashEscape   = "backslash_escape"
	tsURIAutolink       = "uri_autolink"
	tsEmailAutolink     = "email_autolink"
	tsHTMLTag           = "html_tag"
)

var headingMarkers = map[string]int{
	"atx_h1_marker": 1,
	"atx_h2_marker": 2,
	"atx_h3_marker": 3,
	"atx_h4_marker": 4,
	"atx_h5_marker": 5,
	"atx_h6_marker": 6,
}
