package cleanplate

import "regexp"

// Word families shared by the noise filter and the confidence scorer.
const (
	unitWords = `cups?|tablespoons?|tbsps?|tbs|tb|teaspoons?|tsps?|ounces?|oz|fl\.?\s?oz|pounds?|lbs?|` +
		`grams?|g|kilograms?|kg|milligrams?|mg|milliliters?|millilitres?|ml|liters?|litres?|l|` +
		`pints?|pt|quarts?|qt|gallons?|gal|pinch(es)?|dash(es)?|cloves?|cans?|packages?|pkg|` +
		`sticks?|slices?|bunch(es)?|handfuls?|sprigs?|pieces?|heads?|stalks?|jars?|bottles?|` +
		`drops?|inch(es)?|cm|envelopes?|containers?|scoops?|knobs?`

	foodWords = `salt|pepper|sugar|flour|butter|oil|olive|eggs?|yolks?|milk|cream|cheese|water|garlic|` +
		`onions?|shallots?|chicken|beef|pork|lamb|turkey|fish|salmon|tuna|shrimp|prawns?|rice|pasta|` +
		`noodles?|tomato(es)?|potato(es)?|carrots?|celery|lemons?|limes?|oranges?|vinegar|honey|syrup|` +
		`vanilla|baking\s+(soda|powder)|yeast|cinnamon|nutmeg|parsley|basil|oregano|thyme|rosemary|` +
		`cilantro|coriander|cumin|paprika|chili|chile|ginger|soy\s+sauce|broth|stock|wine|chocolate|` +
		`cocoa|nuts|almonds?|walnuts?|pecans?|peanuts?|beans|lentils|chickpeas|corn|peas|spinach|` +
		`kale|lettuce|cabbage|broccoli|zucchini|mushrooms?|bacon|ham|sausages?|yogurt|yoghurt|` +
		`mayonnaise|mustard|ketchup|bread|breadcrumbs|tortillas?|oats|apples?|bananas?|berries|` +
		`strawberries|blueberries|raisins|avocados?|cucumbers?|herbs?|spices?|seasoning|cornstarch|` +
		`gelatin|tofu|coconut|sesame|seeds?`

	prepWords = `chopped|diced|minced|sliced|grated|shredded|peeled|melted|softened|crushed|ground|` +
		`beaten|divided|drained|rinsed|trimmed|halved|quartered|cubed|julienned|toasted|cooked|` +
		`packed|sifted|room\s+temperature|to\s+taste|finely|roughly|thinly|optional|fresh|frozen|` +
		`dried|large|medium|small|whole|boneless|skinless`

	cookingVerbs = `preheat|heat|cook|bake|roast|boil|simmer|fry|saute|sauté|grill|broil|stir|mix|whisk|` +
		`beat|combine|add|pour|place|put|remove|transfer|serve|season|sprinkle|chop|dice|slice|mince|` +
		`cut|peel|drain|rinse|blend|fold|knead|roll|spread|cover|refrigerate|chill|freeze|marinate|` +
		`toss|brush|grease|line|melt|bring|reduce|let|allow|cool|garnish|top|layer|arrange|flip|` +
		`turn|wrap|strain|mash|puree|purée|pulse|process|steam|toast|sear|brown|drizzle|squeeze|` +
		`zest|grate|shred|stuff|fill|shape|form|divide|measure|prepare|warm|soak|dissolve|scrape|` +
		`crack|whip|cream|set|rest|bake|poach|braise|caramelize|deglaze|baste|skewer|thread`
)

var (
	// measurementRe matches a quantity followed by a unit ("2 cups", "½ tsp").
	measurementRe = regexp.MustCompile(`(?i)(\d|[½¼¾⅓⅔⅛⅜⅝⅞])[\d\s/.,-]*\s*(` + unitWords + `)\b`)

	// ingredientSignalRe matches any food, unit or preparation word.
	ingredientSignalRe = regexp.MustCompile(`(?i)\b(` + unitWords + `|` + foodWords + `|` + prepWords + `)\b|[½¼¾⅓⅔⅛⅜⅝⅞]`)

	cookingVerbRe = regexp.MustCompile(`(?i)\b(` + cookingVerbs + `)\b`)
)

// HasMeasurement reports whether an ingredient line carries a quantity and unit.
func HasMeasurement(s string) bool {
	return measurementRe.MatchString(s)
}

// HasCookingVerb reports whether an instruction names a cooking action.
func HasCookingVerb(s string) bool {
	return cookingVerbRe.MatchString(s)
}
