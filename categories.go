package main

import (
	"math/rand"
)

// CategoryCard carries three categories; one face is active at a time.
type CategoryCard struct {
	ID         string    `json:"id"`
	Categories [3]string `json:"categories"`
}

// categoryCards is the fixed set of 78 category cards.
var categoryCards = []CategoryCard{
	{ID: "cat-1", Categories: [3]string{"Chanteuses", "Pays d'Afrique", "Objets de cuisine"}},
	{ID: "cat-2", Categories: [3]string{"Chanteurs", "Pays d'Europe", "Meubles"}},
	{ID: "cat-3", Categories: [3]string{"Groupes de musique", "Capitales", "Vêtements"}},
	{ID: "cat-4", Categories: [3]string{"Instruments de musique", "Villes de France", "Animaux de la ferme"}},
	{ID: "cat-5", Categories: [3]string{"Métiers", "Fleuves", "Animaux sauvages"}},

	{ID: "cat-6", Categories: [3]string{"Films célèbres", "Montagnes", "Oiseaux"}},
	{ID: "cat-7", Categories: [3]string{"Séries TV", "Océans et mers", "Poissons"}},
	{ID: "cat-8", Categories: [3]string{"Acteurs", "Îles", "Insectes"}},
	{ID: "cat-9", Categories: [3]string{"Actrices", "Déserts", "Reptiles"}},
	{ID: "cat-10", Categories: [3]string{"Réalisateurs", "Forêts", "Mammifères"}},

	{ID: "cat-11", Categories: [3]string{"Sports", "Fruits", "Marques de voiture"}},
	{ID: "cat-12", Categories: [3]string{"Sportifs", "Légumes", "Marques de vêtements"}},
	{ID: "cat-13", Categories: [3]string{"Sportives", "Arbres", "Marques tech"}},
	{ID: "cat-14", Categories: [3]string{"Équipes de foot", "Fleurs", "Restaurants"}},
	{ID: "cat-15", Categories: [3]string{"Jeux vidéo", "Plantes", "Fast-food"}},

	{ID: "cat-16", Categories: [3]string{"Prénoms masculins", "Couleurs", "Boissons"}},
	{ID: "cat-17", Categories: [3]string{"Prénoms féminins", "Formes géométriques", "Alcools"}},
	{ID: "cat-18", Categories: [3]string{"Noms de famille", "Matériaux", "Cocktails"}},
	{ID: "cat-19", Categories: [3]string{"Personnages de BD", "Métaux", "Cafés et thés"}},
	{ID: "cat-20", Categories: [3]string{"Super-héros", "Pierres précieuses", "Sodas"}},

	{ID: "cat-21", Categories: [3]string{"Écrivains", "Fromages", "Outils"}},
	{ID: "cat-22", Categories: [3]string{"Livres célèbres", "Pâtisseries", "Électroménager"}},
	{ID: "cat-23", Categories: [3]string{"Poètes", "Plats italiens", "Objets de bureau"}},
	{ID: "cat-24", Categories: [3]string{"Philosophes", "Plats asiatiques", "Fournitures scolaires"}},
	{ID: "cat-25", Categories: [3]string{"Scientifiques", "Desserts", "Jouets"}},

	{ID: "cat-26", Categories: [3]string{"Peintres", "Sauces", "Jeux de société"}},
	{ID: "cat-27", Categories: [3]string{"Sculpteurs", "Épices", "Jeux de cartes"}},
	{ID: "cat-28", Categories: [3]string{"Compositeurs", "Céréales", "Instruments de mesure"}},
	{ID: "cat-29", Categories: [3]string{"Danseurs", "Viandes", "Parties du corps"}},
	{ID: "cat-30", Categories: [3]string{"Chorégraphes", "Poissons (culinaire)", "Organes"}},

	{ID: "cat-31", Categories: [3]string{"Politiciens", "Bonbons", "Vêtements d'hiver"}},
	{ID: "cat-32", Categories: [3]string{"Inventeurs", "Chocolats", "Vêtements d'été"}},
	{ID: "cat-33", Categories: [3]string{"Explorateurs", "Glaces", "Chaussures"}},
	{ID: "cat-34", Categories: [3]string{"Astronautes", "Chips et snacks", "Accessoires"}},
	{ID: "cat-35", Categories: [3]string{"Pirates célèbres", "Biscuits", "Bijoux"}},

	{ID: "cat-36", Categories: [3]string{"Rois et reines", "Pains", "Coiffures"}},
	{ID: "cat-37", Categories: [3]string{"Empereurs", "Pâtes", "Styles de musique"}},
	{ID: "cat-38", Categories: [3]string{"Présidents", "Riz et grains", "Danses"}},
	{ID: "cat-39", Categories: [3]string{"Dictateurs", "Soupes", "Arts martiaux"}},
	{ID: "cat-40", Categories: [3]string{"Révolutionnaires", "Salades", "Exercices physiques"}},

	{ID: "cat-41", Categories: [3]string{"Dieux grecs", "Condiments", "Positions de yoga"}},
	{ID: "cat-42", Categories: [3]string{"Dieux romains", "Huiles", "Maladies"}},
	{ID: "cat-43", Categories: [3]string{"Dieux égyptiens", "Noix", "Médicaments"}},
	{ID: "cat-44", Categories: [3]string{"Héros mythologiques", "Graines", "Spécialités médicales"}},
	{ID: "cat-45", Categories: [3]string{"Créatures mythiques", "Confitures", "Blessures"}},

	{ID: "cat-46", Categories: [3]string{"Planètes", "Miels", "Émotions"}},
	{ID: "cat-47", Categories: [3]string{"Constellations", "Sirops", "Sentiments"}},
	{ID: "cat-48", Categories: [3]string{"Étoiles", "Laits", "Traits de caractère"}},
	{ID: "cat-49", Categories: [3]string{"Galaxies", "Yaourts", "Défauts"}},
	{ID: "cat-50", Categories: [3]string{"Phénomènes astronomiques", "Crèmes", "Qualités"}},

	{ID: "cat-51", Categories: [3]string{"Catastrophes naturelles", "Pizzas", "Peurs"}},
	{ID: "cat-52", Categories: [3]string{"Climats", "Burgers", "Phobies"}},
	{ID: "cat-53", Categories: [3]string{"Saisons", "Sandwichs", "Superstitions"}},
	{ID: "cat-54", Categories: [3]string{"Mois de l'année", "Tacos", "Rituels"}},
	{ID: "cat-55", Categories: [3]string{"Jours de la semaine", "Sushis", "Croyances"}},

	{ID: "cat-56", Categories: [3]string{"Langues", "Tapas", "Religions"}},
	{ID: "cat-57", Categories: [3]string{"Alphabets", "Mezze", "Philosophies"}},
	{ID: "cat-58", Categories: [3]string{"Dialectes", "Dim sum", "Courants artistiques"}},
	{ID: "cat-59", Categories: [3]string{"Accents", "Currys", "Mouvements littéraires"}},
	{ID: "cat-60", Categories: [3]string{"Expressions", "Nems et rouleaux", "Périodes historiques"}},

	{ID: "cat-61", Categories: [3]string{"Guerres", "Bières", "Empires"}},
	{ID: "cat-62", Categories: [3]string{"Batailles", "Vins", "Dynasties"}},
	{ID: "cat-63", Categories: [3]string{"Traités", "Champagnes", "Civilisations"}},
	{ID: "cat-64", Categories: [3]string{"Révolutions", "Cidres", "Tribus"}},
	{ID: "cat-65", Categories: [3]string{"Indépendances", "Rhums", "Peuples anciens"}},

	{ID: "cat-66", Categories: [3]string{"Monuments", "Whiskys", "Armes"}},
	{ID: "cat-67", Categories: [3]string{"Châteaux", "Vodkas", "Armures"}},
	{ID: "cat-68", Categories: [3]string{"Cathédrales", "Gins", "Véhicules militaires"}},
	{ID: "cat-69", Categories: [3]string{"Musées", "Tequilas", "Grades militaires"}},
	{ID: "cat-70", Categories: [3]string{"Palais", "Liqueurs", "Décorations"}},

	{ID: "cat-71", Categories: [3]string{"Universités", "Apéritifs", "Codes et lois"}},
	{ID: "cat-72", Categories: [3]string{"Bibliothèques", "Digestifs", "Tribunaux"}},
	{ID: "cat-73", Categories: [3]string{"Laboratoires", "Shooters", "Crimes"}},
	{ID: "cat-74", Categories: [3]string{"Observatoires", "Vins chauds", "Punitions"}},
	{ID: "cat-75", Categories: [3]string{"Agences spatiales", "Sangrias", "Prisons"}},

	{ID: "cat-76", Categories: [3]string{"Applications mobiles", "Jus de fruits", "Réseaux sociaux"}},
	{ID: "cat-77", Categories: [3]string{"Sites web", "Smoothies", "Langages de programmation"}},
	{ID: "cat-78", Categories: [3]string{"Systèmes d'exploitation", "Milkshakes", "Émojis"}},
}

// buildCategoryDeck returns a shuffled copy of all category cards.
func buildCategoryDeck(rng *rand.Rand) []CategoryCard {
	return shuffleDeck(rng, categoryCards)
}

// drawCategoryCard pops the top category card from the pile.
func drawCategoryCard(pile []CategoryCard) (card *CategoryCard, remaining []CategoryCard) {
	if len(pile) == 0 {
		return nil, nil
	}

	top := pile[0]
	return &top, pile[1:]
}
