package training

// ReasoningPatterns returns the hand-authored examples that teach the model
// how to reason about combo pieces and loops rather than recall known ones.
func ReasoningPatterns() []Example {
	return []Example{
		{
			Instruction: "What types of cards would combo well with this card?",
			Input:       "Card: Midnight Guard\nText: Whenever another creature enters the battlefield under your control, untap Midnight Guard.",
			Output: "Midnight Guard combos well with:\n\n" +
				"1. Cards that create tokens when it taps (like Presence of Gond) - creates infinite tokens\n" +
				"2. Cards with beneficial tap abilities\n" +
				"3. Cards that generate multiple creatures\n\n" +
				"The key is that it untaps whenever a creature enters, so you want effects that trigger when you tap it AND create creatures.",
		},
		{
			Instruction: "Identify what makes this a combo piece.",
			Input:       "Card: Ghostly Flicker\nText: Exile two target artifacts, creatures, and/or lands you control, then return those cards to the battlefield under your control.",
			Output: "Ghostly Flicker is a combo enabler because:\n\n" +
				"1. It can target creatures with ETB abilities for repeated value\n" +
				"2. It can target itself by flickering creatures that return instants/sorceries (like Archaeomancer)\n" +
				"3. It can untap lands for mana generation\n" +
				"4. It's an instant, so it has flexibility\n\n" +
				"Look for creatures with 'when enters the battlefield' that return instant cards, or creatures that untap lands.",
		},
		{
			Instruction: "Walk through how to identify if cards form an infinite loop.",
			Input:       "I have Famished Paladin (untaps when I gain life), Presence of Gond (enchantment that lets me tap to create a 1/1 elf), and Soul Warden (gain 1 life when creature enters). Is this infinite?",
			Output: "Let me analyze this step-by-step:\n\n" +
				"Step 1: Identify the trigger - Famished Paladin untaps when you gain life\n" +
				"Step 2: Identify the action - Presence of Gond lets Paladin tap to create a token\n" +
				"Step 3: Identify the loop closer - Soul Warden gains life when creature enters\n" +
				"Step 4: Test the loop:\n" +
				"  - Tap Paladin → Create Elf token\n" +
				"  - Elf enters → Soul Warden triggers, gain 1 life\n" +
				"  - Gain life → Famished Paladin untaps\n" +
				"  - Loop back to step 1\n\n" +
				"Conclusion: YES, this is an infinite combo creating infinite 1/1 elves and infinite life.",
		},
		{
			Instruction: "Explain why these cards do not form an infinite combo on their own.",
			Input:       "Cards: Archaeomancer, Ghostly Flicker",
			Output: "Let me check the loop step-by-step:\n\n" +
				"Step 1: Cast Ghostly Flicker targeting Archaeomancer and a land\n" +
				"Step 2: Archaeomancer re-enters and returns Ghostly Flicker to hand\n" +
				"Step 3: The flickered land returns untapped, giving back one mana\n" +
				"Step 4: Ghostly Flicker costs three mana, so each loop loses two mana\n\n" +
				"Conclusion: NO, this is a value engine, not an infinite combo. " +
				"It needs a mana source such as Peregrine Drake or a second Archaeomancer effect on a mana-producing permanent to close the loop.",
		},
	}
}
