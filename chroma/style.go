package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"

	"github.com/fwojciec/skillreview"
)

// StyleFromPalette returns a function that maps chroma token types to
// skillreview styles based on the provided palette colors.
func StyleFromPalette(p skillreview.Palette) StyleFunc {
	return func(tt chromalib.TokenType) skillreview.Style {
		switch tt {
		// Type keywords (handled separately from other keywords)
		case chromalib.KeywordType:
			return skillreview.Style{Foreground: p.Type, Bold: true}

		// Keywords
		case chromalib.Keyword, chromalib.KeywordConstant, chromalib.KeywordDeclaration,
			chromalib.KeywordNamespace, chromalib.KeywordPseudo, chromalib.KeywordReserved:
			return skillreview.Style{Foreground: p.Keyword, Bold: true}

		// Comments
		case chromalib.Comment, chromalib.CommentHashbang, chromalib.CommentMultiline,
			chromalib.CommentPreproc, chromalib.CommentPreprocFile, chromalib.CommentSingle,
			chromalib.CommentSpecial:
			return skillreview.Style{Foreground: p.Comment}

		// Strings
		case chromalib.String, chromalib.StringAffix, chromalib.StringBacktick, chromalib.StringChar,
			chromalib.StringDelimiter, chromalib.StringDoc, chromalib.StringDouble,
			chromalib.StringEscape, chromalib.StringHeredoc, chromalib.StringInterpol,
			chromalib.StringOther, chromalib.StringRegex, chromalib.StringSingle,
			chromalib.StringSymbol:
			return skillreview.Style{Foreground: p.String}

		// Numbers
		case chromalib.Number, chromalib.NumberBin, chromalib.NumberFloat, chromalib.NumberHex,
			chromalib.NumberInteger, chromalib.NumberIntegerLong, chromalib.NumberOct:
			return skillreview.Style{Foreground: p.Number}

		// Operators
		case chromalib.Operator, chromalib.OperatorWord:
			return skillreview.Style{Foreground: p.Operator}

		// Function names
		case chromalib.NameFunction, chromalib.NameFunctionMagic:
			return skillreview.Style{Foreground: p.Function}

		// Constants
		case chromalib.NameConstant:
			return skillreview.Style{Foreground: p.Constant}

		// Punctuation
		case chromalib.Punctuation:
			return skillreview.Style{Foreground: p.Punctuation}

		default:
			return skillreview.Style{}
		}
	}
}
