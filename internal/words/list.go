package words

// Entry is a playable word with its category hint
type Entry struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

// List is the curated French word list. Categories double as the optional
// in-game hint.
var List = []Entry{
	// Animaux
	{"chat", "Animal"},
	{"chien", "Animal"},
	{"éléphant", "Animal"},
	{"girafe", "Animal"},
	{"hippopotame", "Animal"},
	{"kangourou", "Animal"},
	{"papillon", "Animal"},
	{"crocodile", "Animal"},
	{"dauphin", "Animal"},
	{"pingouin", "Animal"},
	{"grenouille", "Animal"},
	{"écureuil", "Animal"},
	{"hérisson", "Animal"},
	{"tortue", "Animal"},
	{"lapin", "Animal"},

	// Fruits
	{"pomme", "Fruit"},
	{"banane", "Fruit"},
	{"fraise", "Fruit"},
	{"orange", "Fruit"},
	{"cerise", "Fruit"},
	{"ananas", "Fruit"},
	{"pastèque", "Fruit"},
	{"mangue", "Fruit"},
	{"pêche", "Fruit"},
	{"raisin", "Fruit"},
	{"citron", "Fruit"},
	{"poire", "Fruit"},
	{"abricot", "Fruit"},
	{"framboise", "Fruit"},
	{"kiwi", "Fruit"},

	// Métiers
	{"médecin", "Métier"},
	{"boulanger", "Métier"},
	{"pompier", "Métier"},
	{"professeur", "Métier"},
	{"architecte", "Métier"},
	{"infirmière", "Métier"},
	{"mécanicien", "Métier"},
	{"journaliste", "Métier"},
	{"cuisinier", "Métier"},
	{"électricien", "Métier"},

	// Nature
	{"montagne", "Nature"},
	{"rivière", "Nature"},
	{"forêt", "Nature"},
	{"cascade", "Nature"},
	{"volcan", "Nature"},
	{"océan", "Nature"},
	{"prairie", "Nature"},
	{"tempête", "Nature"},
	{"arc en ciel", "Nature"},
	{"clair de lune", "Nature"},

	// Objets
	{"ordinateur", "Objet"},
	{"téléphone", "Objet"},
	{"parapluie", "Objet"},
	{"bibliothèque", "Objet"},
	{"fenêtre", "Objet"},
	{"tire-bouchon", "Objet"},
	{"porte-monnaie", "Objet"},
	{"réfrigérateur", "Objet"},
	{"aspirateur", "Objet"},
	{"chaussure", "Objet"},

	// Sports
	{"football", "Sport"},
	{"natation", "Sport"},
	{"escalade", "Sport"},
	{"gymnastique", "Sport"},
	{"badminton", "Sport"},
	{"équitation", "Sport"},
	{"ski", "Sport"},
	{"judo", "Sport"},
}
