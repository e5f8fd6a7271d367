package profile

// Dimension pairs a stable key with the analyst prompt used to assess it.
type Dimension struct {
	Key    string
	Prompt string
}

// Schema returns the fixed set of personality dimensions the extractor
// reports on. Keys double as the JSON keys of the extract response, so
// they must stay stable once published.
func Schema() []Dimension {
	return []Dimension{
		{
			Key: "relationship_with_family",
			Prompt: "What is this person's relationship with their family like? " +
				"Write a short narrative read about the dynamics, closeness, tension, " +
				"and role family plays in their identity.",
		},
		{
			Key: "relationship_with_self",
			Prompt: "How does this person relate to themselves? " +
				"Describe their inner dialogue, self-worth, self-criticism, and how " +
				"comfortable they are being alone with their own thoughts.",
		},
		{
			Key: "sources_of_escape_and_fun",
			Prompt: "Where does this person go -- physically, mentally, or emotionally -- " +
				"when they need to escape or have fun? What activities or places recharge them?",
		},
		{
			Key: "what_makes_them_happy",
			Prompt: "What genuinely makes this person happy? Not what they think should make " +
				"them happy, but what actually lights them up based on the conversation.",
		},
		{
			Key: "what_makes_them_sad",
			Prompt: "What makes this person sad or heavy? What losses, disappointments, or " +
				"unmet needs weigh on them?",
		},
		{
			Key: "what_they_value_in_people",
			Prompt: "What qualities does this person look for and value most in other people? " +
				"What earns their trust and respect?",
		},
		{
			Key: "values_above_average",
			Prompt: "What values does this person hold MORE strongly than the general population? " +
				"Things they prioritize that most people would not rank as high.",
		},
		{
			Key: "values_below_average",
			Prompt: "What values does the general population hold that this person does NOT " +
				"prioritize as much? Things most people care about that this person is " +
				"relatively indifferent to.",
		},
		{
			Key: "emotional_awareness",
			Prompt: "How aware is this person of their own emotions? Do they process feelings " +
				"openly or suppress them? Describe their emotional intelligence and blind spots.",
		},
		{
			Key: "identity_and_self_image",
			Prompt: "How does this person see themselves, and how do they want to be seen? " +
				"What is the gap between their self-image and reality?",
		},
		{
			Key: "moral_framework",
			Prompt: "What constitutes right and wrong for this person? Where are they rigid " +
				"and where are they flexible? What moral hills would they die on?",
		},
		{
			Key: "response_to_adversity",
			Prompt: "How does this person handle setbacks, frustration, and pain? " +
				"Do they fight, withdraw, adapt, or something else?",
		},
		{
			Key: "need_for_control",
			Prompt: "How important is it for this person that the world matches their " +
				"expectations? How do they handle uncertainty and disorder?",
		},
		{
			Key: "hidden_drivers",
			Prompt: "What drives this person beneath the surface -- motivations they may not " +
				"be fully conscious of? Unspoken needs, fears, or desires inferred from " +
				"the conversation.",
		},
	}
}
