package engine

import "fmt"

// Hit is the outcome of one attack, step by step.
type Hit struct {
	Raw     int  `json:"raw"`
	Crit    bool `json:"crit"`
	Armored int  `json:"armored"`
	Damage  int  `json:"damage"`
	Healed  int  `json:"healed"`
	Killed  bool `json:"killed"`
}

// resolveHit applies one attack from att to def: crit, armor, flat
// reduction, hp loss clamped at zero, then lifesteal capped at max hp.
func resolveHit(att, def *CombatUnit, r Roller) Hit {
	h := Hit{Raw: att.Attack}
	dmg := att.Attack
	if roll(r, att.CritChance) {
		h.Crit = true
		dmg = round(float64(dmg) * (att.CritDamage / 100))
	}
	reduction := def.Armor / (def.Armor + 100)
	dmg = round(float64(dmg) * (1 - reduction))
	h.Armored = dmg
	if def.DamageReduction > 0 {
		dmg = round(float64(dmg) * (1 - def.DamageReduction/100))
	}
	h.Damage = dmg
	def.HP = max(0, def.HP-dmg)
	h.Killed = def.HP == 0
	if att.Lifesteal > 0 {
		heal := round(float64(dmg) * att.Lifesteal / 100)
		before := att.HP
		att.HP = min(att.MaxHP, att.HP+heal)
		h.Healed = att.HP - before
	}
	return h
}

func (h Hit) describe(att, def *CombatUnit) string {
	s := fmt.Sprintf("%s@%s hits %s@%s for %d", att.ID, att.Hex, def.ID, def.Hex, h.Damage)
	if h.Crit {
		s += " (crit)"
	}
	if h.Healed > 0 {
		s += fmt.Sprintf(", heals %d", h.Healed)
	}
	if h.Killed {
		s += ", target down"
	}
	return s
}
