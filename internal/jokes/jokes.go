// Package jokes holds the immutable joke table the bot draws from.
package jokes

import (
	"slices"

	"joke-bot/internal/models"
)

// Table maps a category to its ordered jokes. It is never modified after New.
type Table struct {
	byCategory map[models.Category][]string
}

func New(content map[models.Category][]string) *Table {
	t := &Table{byCategory: make(map[models.Category][]string, len(content))}
	for c, list := range content {
		t.byCategory[c] = slices.Clone(list)
	}
	return t
}

// Default returns the built-in table.
func Default() *Table {
	return New(map[models.Category][]string{
		models.CategoryChinese: {
			"为什么程序员喜欢黑色？因为 RGB(0,0,0) 是黑色的！",
			"程序员最讨厌的饼：画的饼",
			"代码写完了，测试是不可能测试的，这辈子都不可能测试的。",
			"两个程序员结婚，生个孩子叫字节，女儿叫字节跳不动。",
			"程序员的双肩包里面永远是电脑、充电器、还有咖啡。",
		},
		models.CategoryEnglish: {
			"Why do programmers prefer dark mode? Because light attracts bugs!",
			"There's no place like 127.0.0.1",
			"Software and beer: both free, both open source, both make you feel weird without.",
			"Why do Java developers wear glasses? Because they can't C#!",
			"A SQL query walks into a bar, walks up to two tables and asks... 'Can I join you?'",
		},
		models.CategoryPun: {
			"The computer was always lying to me, it had a hard disk and a chip on its shoulder.",
			"I told my computer I needed a break, now it won't stop sending me vacation ads.",
			"Programmers are gearheads for the mind, debugging is just mental auto repair.",
			"My code doesn't have bugs, it just develops unexpected features.",
		},
		models.CategoryCode: {
			"// This code is perfect until you try to understand it",
			"TODO: Fix this later (never)",
			"if (it works) { don't touch it; } // The golden rule",
			"// I wrote this code, but God knows what it does",
			"print('Hello, World!') // The beginning of every programmer's journey",
		},
	})
}

// Jokes returns a copy of the category's jokes, or nil if the table has none.
func (t *Table) Jokes(c models.Category) []string {
	list, ok := t.byCategory[c]
	if !ok {
		return nil
	}
	return slices.Clone(list)
}

func (t *Table) Has(c models.Category) bool {
	_, ok := t.byCategory[c]
	return ok
}

// Categories lists the table's categories, known ones first in their
// canonical order, then any others sorted by name.
func (t *Table) Categories() []models.Category {
	out := make([]models.Category, 0, len(t.byCategory))
	for _, c := range models.Categories() {
		if t.Has(c) {
			out = append(out, c)
		}
	}
	var extra []models.Category
	for c := range t.byCategory {
		if _, known := models.ParseCategory(string(c)); !known {
			extra = append(extra, c)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Pool concatenates the jokes of the given categories in order, skipping
// categories the table does not have.
func (t *Table) Pool(categories []models.Category) []string {
	var pool []string
	for _, c := range categories {
		pool = append(pool, t.byCategory[c]...)
	}
	return pool
}

func (t *Table) Contains(c models.Category, joke string) bool {
	return slices.Contains(t.byCategory[c], joke)
}
