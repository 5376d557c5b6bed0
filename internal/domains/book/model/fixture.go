package model

// SeedBooks returns the mock backend's initial catalog. Ids run 1..12.
func SeedBooks() []Book {
	return []Book{
		{ID: "1", Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", PublishedYear: 1960, Status: StatusAvailable},
		{ID: "2", Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Status: StatusIssued},
		{ID: "3", Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1813, Status: StatusAvailable},
		{ID: "4", Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Status: StatusAvailable},
		{ID: "5", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", PublishedYear: 1925, Status: StatusIssued},
		{ID: "6", Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "Non-Fiction", PublishedYear: 2011, Status: StatusAvailable},
		{ID: "7", Title: "The Da Vinci Code", Author: "Dan Brown", Genre: "Thriller", PublishedYear: 2003, Status: StatusAvailable},
		{ID: "8", Title: "Murder on the Orient Express", Author: "Agatha Christie", Genre: "Mystery", PublishedYear: 1934, Status: StatusIssued},
		{ID: "9", Title: "Foundation", Author: "Isaac Asimov", Genre: "Science Fiction", PublishedYear: 1951, Status: StatusAvailable},
		{ID: "10", Title: "All the Light We Cannot See", Author: "Anthony Doerr", Genre: "Historical Fiction", PublishedYear: 2014, Status: StatusAvailable},
		{ID: "11", Title: "Steve Jobs", Author: "Walter Isaacson", Genre: "Biography", PublishedYear: 2011, Status: StatusIssued},
		{ID: "12", Title: "Treasure Island", Author: "Robert Louis Stevenson", Genre: "Adventure", PublishedYear: 1883, Status: StatusAvailable},
	}
}
