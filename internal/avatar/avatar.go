// Package avatar generates random avataaars configurations for new accounts.
// The option tables match what the frontend's renderer accepts.
package avatar

import (
	"encoding/json"
	"math/rand"
)

var options = map[string][]string{
	"topType": {
		"NoHair", "ShortHairShortFlat", "ShortHairShortRound", "ShortHairDreads01",
		"LongHairStraight", "LongHairCurly", "Hat", "Hijab", "Turban", "WinterHat2",
		"Eyepatch", "LongHairBigHair", "LongHairBun", "LongHairCurvy", "LongHairFro",
		"LongHairFroBand", "LongHairNotTooLong", "LongHairShavedSides",
		"LongHairMiaWallace", "LongHairStraight2", "LongHairStraightStrand",
		"ShortHairDreads02", "ShortHairFrizzle", "ShortHairShaggy",
		"ShortHairShaggyMullet", "ShortHairSides", "ShortHairTheCaesar",
		"ShortHairTheCaesarSidePart",
	},
	"accessoriesType": {
		"Blank", "Kurt", "Prescription01", "Prescription02", "Round",
		"Sunglasses", "Wayfarers",
	},
	"hairColor": {
		"Auburn", "Black", "Blonde", "BlondeGolden", "Brown", "BrownDark",
		"PastelPink", "Platinum", "Red", "SilverGray",
	},
	"facialHairType": {
		"Blank", "BeardMedium", "BeardLight", "BeardMajestic",
		"MoustacheFancy", "MoustacheMagnum",
	},
	"facialHairColor": {
		"Auburn", "Black", "Blonde", "BlondeGolden", "Brown", "BrownDark",
		"Platinum", "Red",
	},
	"clotheType": {
		"BlazerShirt", "BlazerSweater", "CollarSweater", "GraphicShirt",
		"Hoodie", "Overall", "ShirtCrewNeck", "ShirtScoopNeck", "ShirtVNeck",
	},
	"clotheColor": {
		"Black", "Blue01", "Blue02", "Blue03", "Gray01", "Gray02", "Heather",
		"PastelBlue", "PastelGreen", "PastelOrange", "PastelRed", "PastelYellow",
		"Pink", "Red", "White",
	},
	"eyeType": {
		"Close", "Cry", "Default", "Dizzy", "EyeRoll", "Happy", "Hearts",
		"Side", "Squint", "Surprised", "Wink", "WinkWacky",
	},
	"eyebrowType": {
		"Angry", "AngryNatural", "Default", "DefaultNatural", "FlatNatural",
		"RaisedExcited", "RaisedExcitedNatural", "SadConcerned",
		"SadConcernedNatural", "UnibrowNatural", "UpDown", "UpDownNatural",
	},
	"mouthType": {
		"Concerned", "Default", "Disbelief", "Eating", "Grimace", "Sad",
		"ScreamOpen", "Serious", "Smile", "Tongue", "Twinkle", "Vomit",
	},
	"skinColor": {
		"Tanned", "Yellow", "Pale", "Light", "Brown", "DarkBrown", "Black",
	},
}

// RandomConfig picks one value per avataaars dimension.
func RandomConfig() map[string]string {
	config := make(map[string]string, len(options))
	for key, opts := range options {
		config[key] = opts[rand.Intn(len(opts))]
	}
	return config
}

// RandomJSON returns a random config as the JSON string stored in
// users.avatar.
func RandomJSON() string {
	raw, err := json.Marshal(RandomConfig())
	if err != nil {
		// map[string]string always marshals.
		return "{}"
	}
	return string(raw)
}
