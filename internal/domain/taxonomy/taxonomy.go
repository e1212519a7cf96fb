// Package taxonomy holds the fixed category list and the keyword phrases
// used to recognise each category in free text.
package taxonomy

// Category names referenced by name elsewhere in the code base.
const (
	Vegan            = "Vegan"
	Environmental    = "Environmental"
	AnimalRights     = "Animal Rights"
	Hunting          = "Hunting"
	OutdoorSports    = "Outdoor Sports"
	Fitness          = "Fitness"
	Art              = "Art"
	Music            = "Music"
	Technology       = "Technology"
	Pride            = "Pride"
	CommunityService = "Community Service"
	Education        = "Education"
	Cooking          = "Cooking"
	Business         = "Business"
)

// Category is a taxonomy entry. Keyword order is significant only for
// readability; duplicates are intentional and score once per occurrence.
type Category struct {
	Name     string
	Keywords []string
}

// categories is ordered; the order breaks score ties.
var categories = []Category{ //nolint:gochecknoglobals // immutable lookup table
	{Vegan, []string{
		"vegan", "plant-based", "vegetarian", "cruelty-free", "animal-free", "dairy-free",
		"meat-free", "plant protein", "veggie", "herbivore", "compassionate", "ethical eating",
	}},
	{"Vegetarian", []string{
		"vegetarian", "veggie", "lacto-ovo", "pescatarian", "flexitarian", "meatless",
		"plant-based", "vegetable", "herbivore", "lactose", "dairy", "eggs",
	}},
	{Environmental, []string{
		"environment", "climate", "sustainability", "green", "eco-friendly", "carbon",
		"renewable", "conservation", "pollution", "recycling", "sustainable", "earth",
		"nature", "wildlife", "biodiversity", "clean energy", "zero waste",
	}},
	{AnimalRights, []string{
		"animal", "animals", "animal rights", "animal welfare", "rescue", "adoption",
		"cruelty-free", "animal shelter", "pet", "wildlife", "conservation", "animal care",
		"animal protection", "animal advocacy", "foster", "animal rescue",
	}},
	{Hunting, []string{
		"hunting", "hunt", "game", "wildlife", "outdoor", "rifle", "bow", "archery",
		"deer", "duck", "hunting season", "conservation", "wildlife management", "game reserve",
	}},
	{"Fishing", []string{
		"fishing", "fish", "angling", "catch", "bait", "rod", "reel", "lake", "river",
		"ocean", "marine", "fisherman", "angling", "fly fishing", "deep sea",
	}},
	{OutdoorSports, []string{
		"outdoor", "hiking", "camping", "climbing", "rock climbing", "mountain", "trail",
		"adventure", "backpacking", "trekking", "outdoor gear", "wilderness", "nature sports",
	}},
	{Fitness, []string{
		"fitness", "workout", "exercise", "gym", "training", "strength", "cardio",
		"yoga", "pilates", "crossfit", "running", "cycling", "swimming", "health",
		"muscle", "endurance", "flexibility", "bootcamp",
	}},
	{Art, []string{
		"art", "painting", "drawing", "sculpture", "gallery", "exhibition", "artist",
		"creative", "visual arts", "fine arts", "artwork", "canvas", "brush", "studio",
		"artistic", "craft", "design", "illustration",
	}},
	{Music, []string{
		"music", "concert", "band", "musician", "song", "performance", "live music",
		"gig", "venue", "sound", "audio", "instrument", "guitar", "piano", "drums",
		"vocal", "singing", "composer", "music festival",
	}},
	{Technology, []string{
		"tech", "technology", "programming", "coding", "software", "app", "development",
		"AI", "artificial intelligence", "machine learning", "data", "computer", "digital",
		"startup", "innovation", "tech meetup", "hackathon", "coding bootcamp",
	}},
	{"Science", []string{
		"science", "research", "experiment", "laboratory", "scientist", "discovery",
		"innovation", "STEM", "physics", "chemistry", "biology", "astronomy", "space",
		"scientific method", "hypothesis", "theory", "science fair",
	}},
	{"LGBTQ+", []string{
		"lgbtq", "lgbt", "pride", "gay", "lesbian", "transgender", "bisexual", "queer",
		"inclusive", "diversity", "equality", "rights", "community", "support", "ally",
	}},
	{Pride, []string{
		"pride", "lgbtq", "lgbt", "gay pride", "pride parade", "celebration", "diversity",
		"inclusive", "equality", "rights", "community", "support", "ally", "rainbow",
	}},
	{"Social Justice", []string{
		"social justice", "justice", "equality", "rights", "activism", "protest",
		"advocacy", "civil rights", "human rights", "fairness", "equity", "discrimination",
		"inclusion", "diversity", "change", "reform",
	}},
	{CommunityService, []string{
		"volunteer", "volunteering", "community service", "service", "help", "charity",
		"nonprofit", "giving back", "community", "outreach", "service project", "donation",
		"fundraising", "social good", "impact",
	}},
	{Education, []string{
		"education", "learning", "teaching", "school", "university", "college", "course",
		"workshop", "seminar", "training", "knowledge", "study", "academic", "student",
		"teacher", "tutor", "mentor", "skill development",
	}},
	{Cooking, []string{
		"cooking", "chef", "recipe", "kitchen", "culinary", "food", "cook", "baking",
		"meal", "ingredient", "cuisine", "restaurant", "catering", "food preparation",
		"culinary arts", "gourmet", "homemade",
	}},
	{"Gardening", []string{
		"gardening", "garden", "plant", "plants", "growing", "vegetable", "herb",
		"flower", "greenhouse", "compost", "soil", "seed", "harvest", "organic",
		"sustainable gardening", "urban farming",
	}},
	{"Photography", []string{
		"photography", "photo", "camera", "photographer", "shooting", "lens", "image",
		"picture", "photoshoot", "portrait", "landscape", "digital", "film", "studio",
		"photography workshop", "photo walk",
	}},
	{"Travel", []string{
		"travel", "trip", "journey", "vacation", "destination", "tourism", "explore",
		"adventure", "backpacking", "sightseeing", "culture", "international", "local",
		"travel guide", "wanderlust", "nomad",
	}},
	{"Culture", []string{
		"culture", "cultural", "heritage", "tradition", "custom", "festival", "celebration",
		"cultural exchange", "diversity", "multicultural", "ethnic", "cultural event",
		"heritage", "traditional", "folklore",
	}},
	{"Religion", []string{
		"religion", "religious", "faith", "spiritual", "church", "temple", "mosque",
		"synagogue", "prayer", "worship", "spirituality", "meditation", "bible",
		"religious study", "faith community",
	}},
	{"Politics", []string{
		"politics", "political", "government", "election", "vote", "democracy",
		"policy", "activism", "campaign", "civic", "public service", "debate",
		"political discussion", "civic engagement",
	}},
	{Business, []string{
		"business", "entrepreneur", "startup", "company", "corporate", "professional",
		"networking", "commerce", "industry", "market", "finance", "investment",
		"business development", "entrepreneurship",
	}},
	{"Networking", []string{
		"networking", "network", "professional", "connection", "meetup", "business",
		"career", "industry", "professional development", "contacts", "relationship",
		"business networking", "professional community",
	}},
	{"Volunteering", []string{
		"volunteer", "volunteering", "service", "help", "charity", "nonprofit",
		"community", "giving back", "outreach", "service project", "donation",
		"fundraising", "social good", "impact", "volunteer work",
	}},
	{"Charity", []string{
		"charity", "donation", "fundraising", "nonprofit", "cause", "help", "support",
		"giving", "philanthropy", "charitable", "benefit", "fundraiser", "charity event",
	}},
	{"Sports", []string{
		"sports", "athletic", "team", "game", "competition", "tournament", "league",
		"athlete", "sporting", "physical activity", "team sports", "individual sports",
		"sports club", "sports event",
	}},
	{"Gaming", []string{
		"gaming", "game", "video game", "gamer", "esports", "console", "pc gaming",
		"board game", "card game", "strategy", "multiplayer", "gaming tournament",
		"gaming community", "game night",
	}},
	{"Books", []string{
		"book", "books", "reading", "literature", "author", "novel", "book club",
		"library", "bookstore", "literary", "book discussion", "reading group",
		"book review", "literature", "storytelling",
	}},
	{"Movies", []string{
		"movie", "film", "cinema", "theater", "film festival", "director", "actor",
		"film screening", "movie night", "cinema", "film discussion", "movie club",
		"film production", "documentary",
	}},
	{"Theater", []string{
		"theater", "theatre", "play", "drama", "performance", "stage", "actor",
		"actress", "production", "theatrical", "drama club", "theater group",
		"stage performance", "theater arts",
	}},
	{"Dance", []string{
		"dance", "dancing", "dancer", "choreography", "ballet", "contemporary",
		"hip hop", "salsa", "ballroom", "dance class", "dance performance",
		"dance studio", "dance workshop", "dance community",
	}},
}

// All returns the taxonomy in tie-break order. Callers must not modify the
// keyword slices.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Names returns the category names in taxonomy order.
func Names() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

// Len returns the number of categories.
func Len() int { return len(categories) }
