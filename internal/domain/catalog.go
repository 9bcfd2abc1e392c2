package domain

import "strings"

// catalog is the bundled quote list used when the remote service cannot be
// reached. Order is significant: it is the iteration order for seen-quote
// rotation.
var catalog = []Quote{
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs", Category: "life"},
	{Text: "Life is what happens when you're busy making other plans.", Author: "John Lennon", Category: "life"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt", Category: "life"},
	{Text: "Your time is limited, so don't waste it living someone else's life.", Author: "Steve Jobs", Category: "life"},
	{Text: "The two most important days in your life are the day you are born and the day you find out why.", Author: "Mark Twain", Category: "life"},
	{Text: "Life is not a problem to be solved, but a reality to be experienced.", Author: "Søren Kierkegaard", Category: "life"},
	{Text: "Life is a daring adventure or nothing at all.", Author: "Helen Keller", Category: "life"},
	{Text: "To live is the rarest thing in the world. Most people exist, that is all.", Author: "Oscar Wilde", Category: "life"},

	{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill", Category: "success"},
	{Text: "The greatest glory in living lies not in never falling, but in rising every time we fall.", Author: "Nelson Mandela", Category: "success"},
	{Text: "I have not failed. I've just found 10,000 ways that won't work.", Author: "Thomas Edison", Category: "success"},
	{Text: "The best revenge is massive success.", Author: "Frank Sinatra", Category: "success"},
	{Text: "If you cannot do great things, do small things in a great way.", Author: "Napoleon Hill", Category: "success"},
	{Text: "Strive not to be a success, but rather to be of value.", Author: "Albert Einstein", Category: "success"},

	{Text: "The only true wisdom is in knowing you know nothing.", Author: "Socrates", Category: "wisdom"},
	{Text: "The more I read, the more I realize how much I don't know.", Author: "Voltaire", Category: "wisdom"},
	{Text: "Knowing yourself is the beginning of all wisdom.", Author: "Aristotle", Category: "wisdom"},
	{Text: "Doubt is the origin of wisdom.", Author: "Ambrose Bierce", Category: "wisdom"},
	{Text: "The important thing is not to stop questioning. Curiosity has its own reason for existing.", Author: "Albert Einstein", Category: "wisdom"},
	{Text: "The fool doth think he is wise, but the wise man knows himself to be a fool.", Author: "William Shakespeare", Category: "wisdom"},

	{Text: "I think, therefore I am.", Author: "René Descartes", Category: "mind"},
	{Text: "The mind is everything. What you think you become.", Author: "Buddha", Category: "mind"},
	{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Aristotle", Category: "mind"},
	{Text: "The mind is not a vessel to be filled but a fire to be kindled.", Author: "Plutarch", Category: "mind"},
	{Text: "Change your thoughts and you change your world.", Author: "Norman Vincent Peale", Category: "mind"},
	{Text: "You have power over your mind—not outside events. Realize this, and you will find strength.", Author: "Marcus Aurelius", Category: "mind"},

	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius", Category: "change"},
	{Text: "The journey of a thousand miles begins with one step.", Author: "Lao Tzu", Category: "change"},
	{Text: "When you change the way you look at things, the things you look at change.", Author: "Wayne Dyer", Category: "change"},
	{Text: "To improve is to change; to be perfect is to change often.", Author: "Winston Churchill", Category: "change"},
	{Text: "When we are no longer able to change a situation, we are challenged to change ourselves.", Author: "Viktor Frankl", Category: "change"},
	{Text: "You must learn a new way to think before you can master a new way to be.", Author: "Marianne Williamson", Category: "change"},

	{Text: "Our doubts are traitors and make us lose the good we might win by fearing to attempt.", Author: "William Shakespeare", Category: "courage"},
	{Text: "The most difficult thing is the decision to act; the rest is merely tenacity.", Author: "Amelia Earhart", Category: "courage"},
	{Text: "Courage is grace under pressure.", Author: "Ernest Hemingway", Category: "courage"},
	{Text: "Act as if what you do makes a difference. It does.", Author: "William James", Category: "courage"},
	{Text: "The only thing necessary for the triumph of evil is for good men to do nothing.", Author: "Edmund Burke", Category: "courage"},

	{Text: "Happiness is not something ready made. It comes from your own actions.", Author: "Dalai Lama", Category: "happiness"},
	{Text: "Happiness depends upon ourselves.", Author: "Aristotle", Category: "happiness"},
	{Text: "Not in doing what you like, but in liking what you do is the secret to happiness.", Author: "J.M. Barrie", Category: "happiness"},
	{Text: "Do not spoil what you have by desiring what you have not.", Author: "Epicurus", Category: "happiness"},
	{Text: "When one door of happiness closes, another opens.", Author: "Helen Keller", Category: "happiness"},

	{Text: "To be yourself in a world that is constantly trying to make you something else is the greatest accomplishment.", Author: "Ralph Waldo Emerson", Category: "self"},
	{Text: "You must be the change you wish to see in the world.", Author: "Mahatma Gandhi", Category: "self"},
	{Text: "Your visions will become clear only when you can look into your own heart.", Author: "Carl Jung", Category: "self"},
	{Text: "The only journey is the one within.", Author: "Rainer Maria Rilke", Category: "self"},
	{Text: "Everything that irritates us about others can lead us to an understanding of ourselves.", Author: "Carl Jung", Category: "self"},

	{Text: "It is not that we have a short time to live, but that we waste a lot of it.", Author: "Seneca", Category: "time"},
	{Text: "Not how long, but how well you have lived is the main thing.", Author: "Seneca", Category: "time"},
	{Text: "The best way to predict your future is to create it.", Author: "Abraham Lincoln", Category: "time"},
	{Text: "In three words I can sum up everything I've learned about life: it goes on.", Author: "Robert Frost", Category: "time"},

	{Text: "Everything we hear is an opinion, not a fact. Everything we see is a perspective, not the truth.", Author: "Marcus Aurelius", Category: "perspective"},
	{Text: "We don't see things as they are, we see them as we are.", Author: "Anaïs Nin", Category: "perspective"},
	{Text: "The real voyage of discovery consists not in seeking new landscapes, but in having new eyes.", Author: "Marcel Proust", Category: "perspective"},
	{Text: "There are no facts, only interpretations.", Author: "Friedrich Nietzsche", Category: "perspective"},
	{Text: "Not everything that can be counted counts, and not everything that counts can be counted.", Author: "Albert Einstein", Category: "perspective"},

	{Text: "Your task is not to seek for love, but merely to seek and find all the barriers within yourself that you have built against it.", Author: "Rumi", Category: "love"},
	{Text: "In the end, we will remember not the words of our enemies, but the silence of our friends.", Author: "Martin Luther King Jr.", Category: "love"},
	{Text: "What you do speaks so loudly that I cannot hear what you say.", Author: "Ralph Waldo Emerson", Category: "love"},

	{Text: "Man is condemned to be free.", Author: "Jean-Paul Sartre", Category: "freedom"},
	{Text: "Freedom is what you do with what's been done to you.", Author: "Jean-Paul Sartre", Category: "freedom"},
	{Text: "The only way to deal with an unfree world is to become so absolutely free that your very existence is an act of rebellion.", Author: "Albert Camus", Category: "freedom"},

	{Text: "What does not kill me makes me stronger.", Author: "Friedrich Nietzsche", Category: "resilience"},
	{Text: "He who conquers himself is the mightiest warrior.", Author: "Confucius", Category: "resilience"},
	{Text: "Turn your wounds into wisdom.", Author: "Oprah Winfrey", Category: "resilience"},
	{Text: "I am not afraid of storms, for I am learning how to sail my ship.", Author: "Louisa May Alcott", Category: "resilience"},

	{Text: "Keep your face always toward the sunshine—and shadows will fall behind you.", Author: "Walt Whitman", Category: "inspiration"},
	{Text: "Turn your face to the sun and the shadows fall behind you.", Author: "Maori Proverb", Category: "inspiration"},
	{Text: "There is a crack in everything, that's how the light gets in.", Author: "Leonard Cohen", Category: "inspiration"},
	{Text: "In the depth of winter, I finally learned that within me there lay an invincible summer.", Author: "Albert Camus", Category: "inspiration"},
	{Text: "The only limit to our realization of tomorrow will be our doubts of today.", Author: "Franklin D. Roosevelt", Category: "inspiration"},

	{Text: "The more that you read, the more things you will know. The more that you learn, the more places you'll go.", Author: "Dr. Seuss", Category: "learning"},
	{Text: "Life is a succession of lessons which must be lived to be understood.", Author: "Helen Keller", Category: "learning"},
	{Text: "When we do the best we can, we never know what miracle is wrought in our life, or in the life of another.", Author: "Helen Keller", Category: "learning"},
	{Text: "I have learned over the years that when one's mind is made up, this diminishes fear.", Author: "Rosa Parks", Category: "learning"},

	{Text: "Man suffers only because he takes seriously what the gods made for fun.", Author: "Alan Watts", Category: "philosophy"},
	{Text: "The first step toward change is awareness. The second step is acceptance.", Author: "Nathaniel Branden", Category: "philosophy"},
	{Text: "The soul becomes dyed with the color of its thoughts.", Author: "Marcus Aurelius", Category: "philosophy"},
	{Text: "No man ever steps in the same river twice, for it's not the same river and he's not the same man.", Author: "Heraclitus", Category: "philosophy"},
	{Text: "What lies behind us and what lies before us are tiny matters compared to what lies within us.", Author: "Ralph Waldo Emerson", Category: "philosophy"},

	{Text: "The purpose of art is washing the dust of daily life off our souls.", Author: "Pablo Picasso", Category: "art"},
	{Text: "Life itself is the most wonderful fairy tale.", Author: "Hans Christian Andersen", Category: "art"},
	{Text: "What we achieve inwardly will change outer reality.", Author: "Plutarch", Category: "art"},
	{Text: "One must still have chaos in oneself to be able to give birth to a dancing star.", Author: "Friedrich Nietzsche", Category: "art"},

	{Text: "Do not go where the path may lead, go instead where there is no path and leave a trail.", Author: "Ralph Waldo Emerson", Category: "legacy"},
	{Text: "Believe those who are seeking the truth. Doubt those who find it.", Author: "André Gide", Category: "legacy"},
	{Text: "Experience is simply the name we give our mistakes.", Author: "Oscar Wilde", Category: "legacy"},
	{Text: "We can easily forgive a child who is afraid of the dark; the real tragedy of life is when men are afraid of the light.", Author: "Plato", Category: "legacy"},
}

// Catalog returns a copy of the bundled quote list.
func Catalog() []Quote {
	out := make([]Quote, len(catalog))
	copy(out, catalog)

	return out
}

// CatalogSize returns the number of bundled quotes.
func CatalogSize() int {
	return len(catalog)
}

// CatalogCategories returns the distinct catalog categories in first-seen order.
func CatalogCategories() []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)

	for _, q := range catalog {
		if q.Category == "" {
			continue
		}

		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}

	return categories
}

// CatalogByCategory returns the catalog quotes whose category matches,
// compared case-insensitively.
func CatalogByCategory(category string) []Quote {
	matches := make([]Quote, 0)

	for _, q := range catalog {
		if strings.EqualFold(q.Category, category) {
			matches = append(matches, q)
		}
	}

	return matches
}
