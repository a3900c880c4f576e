// Package masscode reads the JSON database of the massCode snippet manager.
//
// The database location is taken from massCode's own preferences file
// (<appdata>/v2/preferences.json, key "storagePath") unless a db.json path is
// given explicitly:
//
//	store := masscode.NewStore(masscode.WithAppDataPath("/home/me/.massCode"))
//	db, err := store.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	for id, folder := range db.Folders {
//	    fmt.Println(id, folder.Name)
//	}
//
// Load caches the decoded snapshot and only re-reads the file once its
// modification time advances. Records keep fields the models do not name in
// AdditionalFields, and every collection is also exposed as query documents
// for the query package.
package masscode
