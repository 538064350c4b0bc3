package mdast

import "strings"

// CodeInfo is the parsed info string of a fenced code block:
//
//	```bash build --dep setup -D lint --timeout=30 --silent
//
// yields Identity "build", Deps [setup lint], Flags {timeout: [30], silent: [true]}.
type CodeInfo struct {
	Identity string
	Deps     []string
	Flags    map[string][]string
	Args     []string
}

const codeInfoKey = "codeInfo"

// depFlags are the flag spellings that declare a dependency.
var depFlags = map[string]bool{
	"dep":  true,
	"deps": true,
	"D":    true,
}

// CodeInfoOf parses n.Meta for code nodes and caches the result in the node's
// data bag. Non-code nodes return a zero CodeInfo.
func CodeInfoOf(n *Node) CodeInfo {
	if n == nil || n.Type != TypeCode {
		return CodeInfo{}
	}
	if v, ok := n.Data(codeInfoKey); ok {
		if info, ok := v.(CodeInfo); ok {
			return info
		}
	}
	info := ParseCodeInfo(n.Meta)
	n.SetData(codeInfoKey, info)
	return info
}

// ParseCodeInfo parses a code fence meta string (the info string without its
// language word).
func ParseCodeInfo(meta string) CodeInfo {
	info := CodeInfo{Flags: map[string][]string{}}
	tokens := splitMeta(meta)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") || tok == "-" || tok == "--" {
			if info.Identity == "" {
				info.Identity = tok
			} else {
				info.Args = append(info.Args, tok)
			}
			continue
		}

		name := strings.TrimLeft(tok, "-")
		value, hasValue := "", false
		if k, v, ok := strings.Cut(name, "="); ok {
			name, value, hasValue = k, v, true
		}

		if depFlags[name] {
			if !hasValue && i+1 < len(tokens) {
				i++
				value, hasValue = tokens[i], true
			}
			if hasValue {
				for _, d := range strings.Split(value, ",") {
					if d = strings.TrimSpace(d); d != "" {
						info.Deps = append(info.Deps, d)
					}
				}
			}
			continue
		}

		if !hasValue {
			value = "true"
		}
		info.Flags[name] = append(info.Flags[name], value)
	}
	return info
}

// splitMeta splits on whitespace, keeping single- or double-quoted runs
// together (quotes removed).
func splitMeta(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		inTok  bool
	)
	flush := func() {
		if inTok {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inTok = false
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()
	return tokens
}
