package models

import "math/rand"

// Avatars is the fixed pool new accounts pick their picture from.
var Avatars = []string{
	"https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
	"https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
	"https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
	"https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
	"https://images.pexels.com/photos/1681010/pexels-photo-1681010.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
}

// RandomAvatar picks one entry of Avatars.
func RandomAvatar() string {
	return Avatars[rand.Intn(len(Avatars))]
}

// JoinDateLayout is the format of Account.JoinDate.
const JoinDateLayout = "2006-01-02"
