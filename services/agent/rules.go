package agent

import (
	"strings"

	"calleroo/models"
)

// Rule is a named predicate over the current slot values. Slot specs refer
// to rules by name so agent declarations stay fully data-driven.
type Rule func(slots models.SlotValues) bool

// Rule names used by slot declarations.
const (
	RuleNeedsProductDetails     = "needs_product_details"
	RuleNeedsBroadOK            = "needs_broad_ok"
	RuleShouldAskProductDetails = "should_ask_product_details"
)

var rules = map[string]Rule{
	RuleNeedsProductDetails:     needsProductDetails,
	RuleNeedsBroadOK:            needsBroadOK,
	RuleShouldAskProductDetails: shouldAskProductDetails,
}

// EvalRule evaluates a named rule against the slots. Unknown or empty rule
// names evaluate to false.
func EvalRule(name string, slots models.SlotValues) bool {
	if name == "" {
		return false
	}
	r, ok := rules[name]
	if !ok {
		return false
	}
	return r(slots)
}

// Category-only product terms considered too generic for a useful stock check.
var genericProductTerms = map[string]struct{}{}

func init() {
	terms := []string{
		"fishing rod", "rod", "rods", "fishing reel", "reel", "reels",
		"shoes", "shoe", "sneakers", "boots", "sandals",
		"laptop", "laptops", "computer", "computers", "pc",
		"phone", "phones", "mobile", "mobiles", "smartphone",
		"tv", "television", "televisions", "monitor", "monitors",
		"headphones", "earbuds", "earphones", "speaker", "speakers",
		"camera", "cameras", "lens", "lenses",
		"printer", "printers", "keyboard", "keyboards", "mouse",
		"towel", "towels", "sheets", "sheet", "pillow", "pillows",
		"chair", "chairs", "table", "tables", "desk", "desks",
		"lamp", "lamps", "light", "lights", "bulb", "bulbs",
		"tool", "tools", "drill", "drills", "saw", "saws",
		"paint", "paints", "brush", "brushes",
		"garden hose", "hose", "hoses", "shovel", "rake",
		"bike", "bikes", "bicycle", "bicycles",
		"tent", "tents", "camping gear", "sleeping bag",
		"jacket", "jackets", "coat", "coats", "shirt", "shirts",
		"pants", "jeans", "shorts", "dress", "dresses",
	}
	for _, t := range terms {
		genericProductTerms[t] = struct{}{}
	}
}

// IsGenericProductName reports whether a product name is too generic to
// ask a store about: empty, a known category term, or two words or fewer.
func IsGenericProductName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return true
	}
	if _, ok := genericProductTerms[lower]; ok {
		return true
	}
	return len(strings.Fields(lower)) <= 2
}

// isGenericProduct is like IsGenericProductName but treats an unfilled
// product_name slot as not generic, so the question is not asked early.
func isGenericProduct(slots models.SlotValues) bool {
	name := strings.ToLower(slots.Get("product_name"))
	if name == "" {
		return false
	}
	if _, ok := genericProductTerms[name]; ok {
		return true
	}
	return len(strings.Fields(name)) <= 2
}

func isSkippedDetail(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "not sure", "not_sure", "unsure", "skip":
		return true
	}
	return false
}

// needsProductDetails makes product_details required for generic products
// until the user either supplies details or approves a broad ask.
func needsProductDetails(slots models.SlotValues) bool {
	if !isGenericProduct(slots) {
		return false
	}
	if strings.ToUpper(slots.Get("broad_ok")) == "YES" {
		return false
	}
	return isSkippedDetail(slots.Get("product_details"))
}

// needsBroadOK asks for approval to proceed generically once details were
// skipped, but only until broad_ok has an answer.
func needsBroadOK(slots models.SlotValues) bool {
	if !isGenericProduct(slots) {
		return false
	}
	if !isSkippedDetail(slots.Get("product_details")) {
		return false
	}
	return slots.Get("broad_ok") == ""
}

// shouldAskProductDetails gates the optional product_details question to
// generic product names only.
func shouldAskProductDetails(slots models.SlotValues) bool {
	return IsGenericProductName(slots.Get("product_name"))
}
