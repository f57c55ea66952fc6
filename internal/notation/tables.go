package notation

var onesWords = [...]string{
	"zero", "one", "two", "three", "four",
	"five", "six", "seven", "eight", "nine",
}

var teenWords = [...]string{
	"ten", "eleven", "twelve", "thirteen", "fourteen",
	"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = [...]string{
	"", "", "twenty", "thirty", "forty",
	"fifty", "sixty", "seventy", "eighty", "ninety",
}

// unitFractions are the fractions read with an ordinal instead of "over".
var unitFractions = map[string]string{
	"2": "one half",
	"3": "one third",
	"4": "one fourth",
	"5": "one fifth",
}

// operatorPhrases covers arithmetic, relational, set and logic symbols.
// The hyphen, slash and exclamation mark are handled by their own rules.
var operatorPhrases = map[string]string{
	"+":  "plus",
	"−":  "minus",
	"×":  "times",
	"*":  "times",
	"·":  "times",
	"÷":  "divided by",
	"=":  "equals",
	"==": "equals",
	"≡":  "is equivalent to",
	"≈":  "is approximately equal to",
	"≅":  "is approximately equal to",
	"~":  "is approximately",
	"<":  "is less than",
	">":  "is greater than",
	"<=": "is less than or equal to",
	">=": "is greater than or equal to",
	"≤":  "is less than or equal to",
	"≥":  "is greater than or equal to",
	"≪":  "is much less than",
	"≫":  "is much greater than",
	"≠":  "is not equal to",
	"≢":  "is not equivalent to",
	"∈":  "is an element of",
	"∉":  "is not an element of",
	"⊂":  "is a subset of",
	"⊃":  "is a superset of",
	"⊆":  "is a subset of or equal to",
	"⊇":  "is a superset of or equal to",
	"∪":  "union",
	"∩":  "intersection",
	"∅":  "empty set",
	"∧":  "and",
	"∨":  "or",
	"¬":  "not",
	"⇒":  "implies",
	"⇔":  "if and only if",
	"∴":  "therefore",
	"∵":  "because",
	"±":  "plus or minus",
	"∓":  "minus or plus",
	"%":  "percent",
	"‰":  "per thousand",
	"°":  "degrees",
}

// functionPhrases covers roots, calculus operators, constants, Greek letters
// and the remaining geometric symbols.
var functionPhrases = map[string]string{
	"√": "square root of",
	"∛": "cube root of",
	"∜": "fourth root of",
	"∑": "sum of",
	"∏": "product of",
	"∫": "integral of",
	"∬": "double integral of",
	"∭": "triple integral of",
	"∮": "contour integral of",
	"∂": "partial derivative of",
	"∇": "gradient of",
	"∆": "delta",
	"∞": "infinity",
	"ℯ": "e",

	"α": "alpha",
	"β": "beta",
	"γ": "gamma",
	"δ": "delta",
	"ε": "epsilon",
	"ζ": "zeta",
	"η": "eta",
	"θ": "theta",
	"ι": "iota",
	"κ": "kappa",
	"λ": "lambda",
	"μ": "mu",
	"ν": "nu",
	"ξ": "xi",
	"ο": "omicron",
	"π": "pi",
	"ρ": "rho",
	"σ": "sigma",
	"τ": "tau",
	"υ": "upsilon",
	"φ": "phi",
	"χ": "chi",
	"ψ": "psi",
	"ω": "omega",

	"Α": "Alpha",
	"Β": "Beta",
	"Γ": "Gamma",
	"Δ": "Delta",
	"Ε": "Epsilon",
	"Ζ": "Zeta",
	"Η": "Eta",
	"Θ": "Theta",
	"Ι": "Iota",
	"Κ": "Kappa",
	"Λ": "Lambda",
	"Μ": "Mu",
	"Ν": "Nu",
	"Ξ": "Xi",
	"Ο": "Omicron",
	"Π": "Pi",
	"Ρ": "Rho",
	"Σ": "Sigma",
	"Τ": "Tau",
	"Υ": "Upsilon",
	"Φ": "Phi",
	"Χ": "Chi",
	"Ψ": "Psi",
	"Ω": "Omega",

	"|": "absolute value of",
	"‖": "norm of",
	"∝": "is proportional to",
	"∠": "angle",
	"⊥": "is perpendicular to",
	"∥": "is parallel to",
	"∼": "is similar to",
	"⌊": "floor of",
	"⌋": "",
	"⌈": "ceiling of",
	"⌉": "",
}

var exponentPhrases = map[string]string{
	"⁰": "to the power of zero",
	"¹": "to the first power",
	"²": "squared",
	"³": "cubed",
	"⁴": "to the fourth power",
	"⁵": "to the fifth power",
	"⁶": "to the sixth power",
	"⁷": "to the seventh power",
	"⁸": "to the eighth power",
	"⁹": "to the ninth power",
	"⁺": "to the positive power",
	"⁻": "to the negative power",
	"ⁿ": "to the n-th power",
}

var subscriptPhrases = map[string]string{
	"₀": "sub zero",
	"₁": "sub one",
	"₂": "sub two",
	"₃": "sub three",
	"₄": "sub four",
	"₅": "sub five",
	"₆": "sub six",
	"₇": "sub seven",
	"₈": "sub eight",
	"₉": "sub nine",
	"ₙ": "sub n",
	"ₓ": "sub x",
}

// cleanupReplacements run on the raw string before tokenizing.
var cleanupReplacements = []struct{ from, to string }{
	{"@", " at the rate of "},
}

// symbolRune reports whether r must stand alone as a symbol token even though
// unicode classifies it as a letter (Greek letters, modifier-letter glyphs).
func symbolRune(r rune) bool {
	s := string(r)
	if _, ok := functionPhrases[s]; ok {
		return true
	}
	if _, ok := exponentPhrases[s]; ok {
		return true
	}
	_, ok := subscriptPhrases[s]
	return ok
}

// glyphRune reports whether r is a superscript or subscript glyph.
func glyphRune(r rune) bool {
	s := string(r)
	if _, ok := exponentPhrases[s]; ok {
		return true
	}
	_, ok := subscriptPhrases[s]
	return ok
}
